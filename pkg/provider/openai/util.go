package openai

import (
	"errors"
	"strings"

	"github.com/adrianliechti/imagine/pkg/provider"

	"github.com/openai/openai-go/v3"
)

func convertError(err error) error {
	var apierr *openai.Error

	if errors.As(err, &apierr) {
		return &provider.Error{
			Provider: "openai",

			StatusCode: apierr.StatusCode,
			Message:    apierr.Message,

			Err: err,
		}
	}

	return err
}

func convertFormat(format string) string {
	switch strings.ToLower(format) {
	case "png":
		return "png"

	case "jpg", "jpeg":
		return "jpeg"

	case "webp":
		return "webp"
	}

	return ""
}

func convertSize(model string, input provider.Input) string {
	width, _ := input["width"].(int)
	height, _ := input["height"].(int)

	if width == 0 || height == 0 || width == height {
		return "1024x1024"
	}

	landscape := width > height

	if model == "dall-e-3" {
		if landscape {
			return "1792x1024"
		}

		return "1024x1792"
	}

	if landscape {
		return "1536x1024"
	}

	return "1024x1536"
}
