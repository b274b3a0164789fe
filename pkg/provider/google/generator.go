package google

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/adrianliechti/imagine/pkg/provider"

	"google.golang.org/genai"
)

var _ provider.Generator = (*Generator)(nil)

type Generator struct {
	*Config
}

func NewGenerator(options ...Option) (*Generator, error) {
	cfg := &Config{}

	for _, option := range options {
		option(cfg)
	}

	return &Generator{
		Config: cfg,
	}, nil
}

// Generate runs an Imagen model. Images come back inline, so every locator is a data URI.
func (g *Generator) Generate(ctx context.Context, model string, input provider.Input) (provider.Output, error) {
	if g.token == "" {
		return nil, provider.ErrNotConfigured
	}

	client, err := g.newClient(ctx)

	if err != nil {
		return nil, err
	}

	prompt, _ := input["prompt"].(string)

	config := &genai.GenerateImagesConfig{
		AspectRatio:    convertAspectRatio(input),
		OutputMIMEType: convertMIMEType(input),
	}

	if n, ok := input["num_outputs"].(int); ok && n > 0 {
		config.NumberOfImages = int32(n)
	}

	resp, err := client.Models.GenerateImages(ctx, model, prompt, config)

	if err != nil {
		return nil, convertError(err)
	}

	var result []string

	for _, image := range resp.GeneratedImages {
		if image == nil || image.Image == nil || len(image.Image.ImageBytes) == 0 {
			continue
		}

		mimeType := image.Image.MIMEType

		if mimeType == "" {
			mimeType = config.OutputMIMEType
		}

		result = append(result, "data:"+mimeType+";base64,"+base64.StdEncoding.EncodeToString(image.Image.ImageBytes))
	}

	return result, nil
}

func convertError(err error) error {
	var apierr genai.APIError

	if errors.As(err, &apierr) {
		return &provider.Error{
			Provider: "google",

			StatusCode: apierr.Code,
			Message:    apierr.Message,

			Err: err,
		}
	}

	return err
}

func convertAspectRatio(input provider.Input) string {
	ratio, _ := input["aspect_ratio"].(string)

	switch ratio {
	case "1:1", "3:4", "4:3", "9:16", "16:9":
		return ratio

	case "3:2":
		return "4:3"

	case "2:3":
		return "3:4"
	}

	width, _ := input["width"].(int)
	height, _ := input["height"].(int)

	if width == 0 || height == 0 {
		return "1:1"
	}

	switch r := float64(width) / float64(height); {
	case r >= 1.6:
		return "16:9"
	case r > 1.1:
		return "4:3"
	case r <= 0.6:
		return "9:16"
	case r < 0.9:
		return "3:4"
	}

	return "1:1"
}

func convertMIMEType(input provider.Input) string {
	format, _ := input["output_format"].(string)

	switch format {
	case "jpg", "jpeg":
		return "image/jpeg"
	}

	return "image/png"
}
