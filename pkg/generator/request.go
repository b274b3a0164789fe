package generator

import (
	"slices"
	"strings"

	"github.com/adrianliechti/imagine/pkg/classifier"
)

const (
	DefaultModel       = "black-forest-labs/flux-1.1-pro"
	DefaultFormat      = "png"
	DefaultAspectRatio = "1:1"

	DefaultNumOutputs     = 1
	DefaultGuidanceScale  = 3.5
	DefaultInferenceSteps = 20
)

const AspectRatioCustom = "custom"

var SupportedFormats = []string{"png", "jpg", "jpeg", "webp", "gif"}

var SupportedAspectRatios = []string{"1:1", "16:9", "4:3", "3:2", "2:3", "9:16", AspectRatioCustom}

type Dimensions struct {
	Width  int
	Height int
}

var presets = map[string]Dimensions{
	"1:1":  {1024, 1024},
	"16:9": {1344, 768},
	"4:3":  {1152, 896},
	"3:2":  {1216, 832},
	"2:3":  {832, 1216},
	"9:16": {768, 1344},
}

type Request struct {
	Prompt string
	Model  string

	AspectRatio string

	Width  *int
	Height *int

	OutputFormat string

	NumOutputs     *int
	GuidanceScale  *float64
	InferenceSteps *int
}

// Parameters are the tuning values of a request after defaults are applied.
type Parameters struct {
	Width  *int `json:"width"`
	Height *int `json:"height"`

	NumOutputs     int     `json:"num_outputs"`
	GuidanceScale  float64 `json:"guidance_scale"`
	InferenceSteps int     `json:"num_inference_steps"`

	Format string `json:"format"`
}

type resolved struct {
	prompt string
	model  string
	format string

	aspectRatio string
	dimensions  Dimensions

	parameters Parameters
}

func (r *Request) resolve(defaultModel string) (*resolved, error) {
	prompt := strings.TrimSpace(r.Prompt)

	if prompt == "" {
		return nil, classifier.InvalidInput("Prompt is required and must be a non-empty string")
	}

	format := strings.ToLower(valueOr(r.OutputFormat, DefaultFormat))

	if !slices.Contains(SupportedFormats, format) {
		return nil, classifier.InvalidInput("Invalid format. Supported formats: " + strings.Join(SupportedFormats, ", "))
	}

	model := valueOr(r.Model, defaultModel)

	aspectRatio := valueOr(r.AspectRatio, DefaultAspectRatio)

	if !slices.Contains(SupportedAspectRatios, aspectRatio) {
		return nil, classifier.InvalidInput("Invalid aspect_ratio. Supported: " + strings.Join(SupportedAspectRatios, ", "))
	}

	if aspectRatio == AspectRatioCustom && (r.Width == nil || r.Height == nil) {
		return nil, classifier.InvalidInput("For custom aspect_ratio, both width and height are required")
	}

	dimensions, ok := Resolve(aspectRatio, ptrOr(r.Width, 0), ptrOr(r.Height, 0))

	if !ok {
		return nil, classifier.InvalidInput("For custom aspect_ratio, width and height must be positive")
	}

	return &resolved{
		prompt: prompt,
		model:  model,
		format: format,

		aspectRatio: aspectRatio,
		dimensions:  dimensions,

		parameters: Parameters{
			Width:  r.Width,
			Height: r.Height,

			NumOutputs:     ptrOr(r.NumOutputs, DefaultNumOutputs),
			GuidanceScale:  ptrOr(r.GuidanceScale, DefaultGuidanceScale),
			InferenceSteps: ptrOr(r.InferenceSteps, DefaultInferenceSteps),

			Format: format,
		},
	}, nil
}

// Resolve returns the pixel dimensions for an aspect ratio. Presets ignore
// the given width and height.
func Resolve(aspectRatio string, width, height int) (Dimensions, bool) {
	if aspectRatio == AspectRatioCustom {
		return Dimensions{width, height}, width > 0 && height > 0
	}

	d, ok := presets[aspectRatio]
	return d, ok
}

// AspectRatio returns the preset matching the given dimensions.
func AspectRatio(width, height int) (string, bool) {
	for ratio, d := range presets {
		if d.Width == width && d.Height == height {
			return ratio, true
		}
	}

	return "", false
}

func valueOr(val, fallback string) string {
	if val == "" {
		return fallback
	}

	return val
}

func ptrOr[T any](val *T, fallback T) T {
	if val == nil {
		return fallback
	}

	return *val
}
