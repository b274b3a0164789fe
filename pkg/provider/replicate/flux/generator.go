package flux

import (
	"context"
	"slices"

	"github.com/adrianliechti/imagine/pkg/provider"
)

var _ provider.Generator = (*Generator)(nil)

const (
	FluxSchnell string = "black-forest-labs/flux-schnell"
	FluxDev     string = "black-forest-labs/flux-dev"
	FluxPro     string = "black-forest-labs/flux-pro"

	FluxPro11      string = "black-forest-labs/flux-1.1-pro"
	FluxProUltra11 string = "black-forest-labs/flux-1.1-pro-ultra"
)

var SupportedModels = []string{
	FluxPro,
	FluxDev,
	FluxSchnell,

	FluxPro11,
	FluxProUltra11,
}

// Generator shapes the generic parameter bag into the input schema of the
// flux family before handing it to the wrapped gateway. Other models pass
// through unchanged.
type Generator struct {
	generator provider.Generator
}

func New(generator provider.Generator) *Generator {
	return &Generator{
		generator: generator,
	}
}

func (g *Generator) Generate(ctx context.Context, model string, input provider.Input) (provider.Output, error) {
	return g.generator.Generate(ctx, model, convertInput(model, input))
}

func convertInput(model string, input provider.Input) provider.Input {
	if !slices.Contains(SupportedModels, model) {
		return input
	}

	var keys []string

	switch model {
	case FluxSchnell:
		// https://replicate.com/black-forest-labs/flux-schnell/api/schema#input-schema
		keys = []string{"prompt", "aspect_ratio", "output_format", "output_quality", "num_outputs", "num_inference_steps"}

	case FluxDev:
		// https://replicate.com/black-forest-labs/flux-dev/api/schema#input-schema
		keys = []string{"prompt", "aspect_ratio", "output_format", "output_quality", "num_outputs", "num_inference_steps", "guidance"}

	case FluxPro, FluxPro11:
		// https://replicate.com/black-forest-labs/flux-pro/api/schema#input-schema
		// https://replicate.com/black-forest-labs/flux-1.1-pro/api/schema#input-schema
		keys = []string{"prompt", "aspect_ratio", "width", "height", "output_format", "output_quality", "safety_tolerance", "prompt_upsampling"}

	case FluxProUltra11:
		// https://replicate.com/black-forest-labs/flux-1.1-pro-ultra/api/schema#input-schema
		keys = []string{"prompt", "aspect_ratio", "output_format", "safety_tolerance"}
	}

	result := provider.Input{}

	for key, val := range input {
		if key == "guidance_scale" {
			key = "guidance"
		}

		if !slices.Contains(keys, key) {
			continue
		}

		result[key] = val
	}

	if result["aspect_ratio"] != "custom" {
		delete(result, "width")
		delete(result, "height")
	}

	// ultra only supports preset ratios
	if model == FluxProUltra11 && result["aspect_ratio"] == "custom" {
		result["aspect_ratio"] = "1:1"
	}

	// flux expects "jpg"
	if format, ok := result["output_format"].(string); ok && format == "jpeg" {
		result["output_format"] = "jpg"
	}

	return result
}
