package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/adrianliechti/imagine/pkg/generator"
)

type ImageService struct {
	Options []RequestOption
}

func NewImageService(opts ...RequestOption) ImageService {
	return ImageService{
		Options: opts,
	}
}

type ImageRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model,omitempty"`

	AspectRatio string `json:"aspect_ratio,omitempty"`

	Width  *int `json:"width,omitempty"`
	Height *int `json:"height,omitempty"`

	Format string `json:"format,omitempty"`

	NumOutputs     *int     `json:"num_outputs,omitempty"`
	GuidanceScale  *float64 `json:"guidance_scale,omitempty"`
	InferenceSteps *int     `json:"num_inference_steps,omitempty"`
}

type ImageResponse = generator.Response

func (r *ImageService) Generate(ctx context.Context, input ImageRequest, opts ...RequestOption) (*ImageResponse, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	body, _ := json.Marshal(input)

	req, _ := http.NewRequestWithContext(ctx, "POST", c.URL+"/api/images/generate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}

	var result struct {
		Data *ImageResponse `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	if result.Data == nil {
		return nil, errors.New("empty response")
	}

	return result.Data, nil
}

// Decode returns the bytes and MIME type of a base64 data URI.
func Decode(blob string) ([]byte, string, error) {
	header, payload, ok := strings.Cut(blob, ",")

	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, "", errors.New("invalid data uri")
	}

	data, err := base64.StdEncoding.DecodeString(payload)

	if err != nil {
		return nil, "", err
	}

	contentType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")

	return data, contentType, nil
}
