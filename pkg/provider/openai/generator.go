package openai

import (
	"context"
	"strings"

	"github.com/adrianliechti/imagine/pkg/provider"

	"github.com/openai/openai-go/v3"
)

var _ provider.Generator = (*Generator)(nil)

type Generator struct {
	*Config
	images openai.ImageService
}

func NewGenerator(url string, options ...Option) (*Generator, error) {
	cfg := &Config{
		url: url,
	}

	for _, option := range options {
		option(cfg)
	}

	return &Generator{
		Config: cfg,
		images: openai.NewImageService(cfg.Options()...),
	}, nil
}

// Generate returns the images as a slice of locators: remote URLs when the
// API hands out links, data URIs when it returns base64 payloads.
func (g *Generator) Generate(ctx context.Context, model string, input provider.Input) (provider.Output, error) {
	if g.token == "" {
		return nil, provider.ErrNotConfigured
	}

	prompt, _ := input["prompt"].(string)
	format, _ := input["output_format"].(string)

	params := openai.ImageGenerateParams{
		Model:  openai.ImageModel(model),
		Prompt: prompt,

		Size: openai.ImageGenerateParamsSize(convertSize(model, input)),
	}

	if n, ok := input["num_outputs"].(int); ok && n > 0 {
		params.N = openai.Int(int64(n))
	}

	format = convertFormat(format)

	if strings.HasPrefix(model, "gpt-image") && format != "" {
		params.OutputFormat = openai.ImageGenerateParamsOutputFormat(format)
	} else {
		format = "png"
	}

	image, err := g.images.Generate(ctx, params)

	if err != nil {
		return nil, convertError(err)
	}

	var result []any

	for _, data := range image.Data {
		if data.URL != "" {
			result = append(result, data.URL)
			continue
		}

		if data.B64JSON != "" {
			result = append(result, "data:image/"+format+";base64,"+data.B64JSON)
		}
	}

	return result, nil
}
