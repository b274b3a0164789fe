package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/adrianliechti/imagine/pkg/provider"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

var _ provider.Generator = (*Generator)(nil)

// Generator runs Bedrock image models (Titan, Nova Canvas, Stability). Images
// come back inline, so every locator is a data URI.
type Generator struct {
	*Config

	client *bedrockruntime.Client
}

func NewGenerator(options ...Option) (*Generator, error) {
	cfg := &Config{}

	for _, option := range options {
		option(cfg)
	}

	config, err := config.LoadDefaultConfig(context.Background(), cfg.loadOptions()...)

	if err != nil {
		return nil, err
	}

	client := bedrockruntime.NewFromConfig(config)

	return &Generator{
		Config: cfg,

		client: client,
	}, nil
}

func (g *Generator) Generate(ctx context.Context, model string, input provider.Input) (provider.Output, error) {
	body, contentType, err := convertRequest(model, input)

	if err != nil {
		return nil, err
	}

	resp, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId: aws.String(model),

		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})

	if err != nil {
		return nil, convertError(err)
	}

	var result struct {
		Images []string `json:"images"`
		Error  string   `json:"error"`
	}

	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, err
	}

	if result.Error != "" {
		return nil, errors.New(result.Error)
	}

	var images []string

	for _, image := range result.Images {
		if image == "" {
			continue
		}

		images = append(images, "data:"+contentType+";base64,"+image)
	}

	return images, nil
}

func convertRequest(model string, input provider.Input) ([]byte, string, error) {
	prompt, _ := input["prompt"].(string)

	if isStabilityModel(model) {
		// https://docs.aws.amazon.com/bedrock/latest/userguide/model-parameters-diffusion-3-5-large.html
		format := "png"

		if f, _ := input["output_format"].(string); f == "jpg" || f == "jpeg" {
			format = "jpeg"
		}

		ratio, _ := input["aspect_ratio"].(string)

		if ratio == "" || ratio == "custom" {
			ratio = "1:1"
		}

		body := map[string]any{
			"mode":   "text-to-image",
			"prompt": prompt,

			"aspect_ratio":  ratio,
			"output_format": format,
		}

		data, err := json.Marshal(body)
		return data, "image/" + format, err
	}

	// https://docs.aws.amazon.com/bedrock/latest/userguide/model-parameters-titan-image.html
	config := map[string]any{
		"numberOfImages": 1,
		"quality":        "standard",
	}

	if n, ok := input["num_outputs"].(int); ok && n > 0 {
		config["numberOfImages"] = n
	}

	if w, ok := input["width"].(int); ok && w > 0 {
		config["width"] = w
	}

	if h, ok := input["height"].(int); ok && h > 0 {
		config["height"] = h
	}

	if scale, ok := input["guidance_scale"].(float64); ok && scale > 0 {
		config["cfgScale"] = scale
	}

	body := map[string]any{
		"taskType": "TEXT_IMAGE",

		"textToImageParams": map[string]any{
			"text": prompt,
		},

		"imageGenerationConfig": config,
	}

	data, err := json.Marshal(body)
	return data, "image/png", err
}

func convertError(err error) error {
	var apierr smithy.APIError

	if !errors.As(err, &apierr) {
		return err
	}

	status := 0

	var resperr *smithyhttp.ResponseError

	if errors.As(err, &resperr) {
		status = resperr.HTTPStatusCode()
	}

	message := apierr.ErrorMessage()

	if message == "" {
		message = strings.TrimSpace(apierr.ErrorCode())
	}

	return &provider.Error{
		Provider: "bedrock",

		StatusCode: status,
		Message:    message,

		Err: err,
	}
}
