package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/adrianliechti/imagine/pkg/generator"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type GenerateRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`

	AspectRatio string `json:"aspect_ratio"`

	Width  Number[int] `json:"width"`
	Height Number[int] `json:"height"`

	Format string `json:"format"`

	NumOutputs     Number[int]     `json:"num_outputs"`
	GuidanceScale  Number[float64] `json:"guidance_scale"`
	InferenceSteps Number[int]     `json:"num_inference_steps"`
}

type GenerateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`

	Data *generator.Response `json:"data"`
}

type ModelList struct {
	Success bool `json:"success"`

	Models []Model `json:"models"`
}

type Model struct {
	ID string `json:"id"`

	Name        string `json:"name"`
	Description string `json:"description"`

	MaxWidth  int `json:"maxWidth"`
	MaxHeight int `json:"maxHeight"`

	DefaultWidth  int `json:"defaultWidth"`
	DefaultHeight int `json:"defaultHeight"`
}

type ProfileResponse struct {
	Message string `json:"message"`

	User User `json:"user"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Number accepts a JSON number or a numeric string. Null, empty and
// unparsable values are treated as absent.
type Number[T int | float64] struct {
	value *T
}

func (n Number[T]) Value() *T {
	return n.value
}

func (n *Number[T]) UnmarshalJSON(data []byte) error {
	n.value = nil

	data = bytes.TrimSpace(data)

	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	text := string(data)

	if len(data) > 0 && data[0] == '"' {
		var s string

		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		text = strings.TrimSpace(s)
	}

	if text == "" {
		return nil
	}

	f, err := strconv.ParseFloat(text, 64)

	if err != nil {
		return nil
	}

	v := T(f)
	n.value = &v

	return nil
}
