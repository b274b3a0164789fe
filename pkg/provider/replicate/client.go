package replicate

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/adrianliechti/imagine/pkg/provider"

	"github.com/replicate/replicate-go"
)

var _ provider.Generator = (*Client)(nil)

type Client struct {
	*Config
	client *replicate.Client
}

type PredictionInput = replicate.PredictionInput
type PredictionOutput = replicate.PredictionOutput

type FileOutput = replicate.FileOutput

func New(options ...Option) (*Client, error) {
	cfg := &Config{}

	for _, option := range options {
		option(cfg)
	}

	c := &Client{
		Config: cfg,
	}

	if cfg.token == "" {
		return c, nil
	}

	client, err := replicate.NewClient(cfg.Options()...)

	if err != nil {
		return nil, err
	}

	c.client = client

	return c, nil
}

func (c *Client) Generate(ctx context.Context, model string, input provider.Input) (provider.Output, error) {
	if c.client == nil {
		return nil, provider.ErrNotConfigured
	}

	options := []replicate.RunOption{
		replicate.WithBlockUntilDone(),
	}

	if c.fileOutput {
		options = append(options, replicate.WithFileOutput())
	}

	output, err := c.client.RunWithOptions(ctx, model, PredictionInput(input), nil, options...)

	if err != nil {
		return nil, convertError(err)
	}

	return convertOutput(output), nil
}

func convertError(err error) error {
	// a failed prediction is a provider failure, never a model lookup error
	var merr *replicate.ModelError

	if errors.As(err, &merr) {
		message := "Prediction failed"

		if merr.Prediction != nil && merr.Prediction.Error != nil {
			message = fmt.Sprintf("Prediction failed: %v", merr.Prediction.Error)
		}

		return &provider.Error{
			Provider: "replicate",

			StatusCode: http.StatusInternalServerError,
			Message:    message,

			Err: err,
		}
	}

	var apierr *replicate.APIError

	if errors.As(err, &apierr) {
		message := apierr.Detail

		if message == "" {
			message = apierr.Title
		}

		return &provider.Error{
			Provider: "replicate",

			StatusCode: apierr.Status,
			Message:    message,

			Err: err,
		}
	}

	return err
}

// convertOutput keeps the prediction output shape. A top-level file becomes a
// Handle, nested files are reduced to their URL.
func convertOutput(output PredictionOutput) provider.Output {
	switch v := output.(type) {
	case *FileOutput:
		return &fileHandle{v}

	case []any:
		result := make([]any, len(v))

		for i, item := range v {
			result[i] = fileURL(item)
		}

		return result

	case map[string]any:
		result := make(map[string]any, len(v))

		for key, item := range v {
			if items, ok := item.([]any); ok {
				result[key] = convertOutput(items)
				continue
			}

			result[key] = fileURL(item)
		}

		return result
	}

	return output
}

func fileURL(v any) any {
	file, ok := v.(*FileOutput)

	if !ok {
		return v
	}

	if file.ReadCloser != nil {
		file.Close()
	}

	return file.URL
}

type fileHandle struct {
	file *FileOutput
}

func (h *fileHandle) URL() (string, error) {
	if h.file == nil {
		return "", errors.New("empty file output")
	}

	if h.file.ReadCloser != nil {
		h.file.Close()
	}

	return h.file.URL, nil
}
