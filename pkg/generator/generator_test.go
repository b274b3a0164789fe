package generator_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/adrianliechti/imagine/pkg/classifier"
	"github.com/adrianliechti/imagine/pkg/generator"
	"github.com/adrianliechti/imagine/pkg/materializer"
	"github.com/adrianliechti/imagine/pkg/provider"

	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	calls atomic.Int64

	output func(model string) (provider.Output, error)

	model string
	input provider.Input
}

func (g *stubGenerator) Generate(ctx context.Context, model string, input provider.Input) (provider.Output, error) {
	g.calls.Add(1)

	g.model = model
	g.input = input

	return g.output(model)
}

func returning(output provider.Output, err error) *stubGenerator {
	return &stubGenerator{
		output: func(string) (provider.Output, error) {
			return output, err
		},
	}
}

func newImageServer(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("\x89PNG fake"))
	}))

	t.Cleanup(server.Close)

	return server
}

func ptr[T any](v T) *T {
	return &v
}

func TestGenerateEndToEnd(t *testing.T) {
	server := newImageServer(t)

	stub := returning(server.URL+"/out.png", nil)
	g := generator.New(stub)

	resp, err := g.Generate(context.Background(), generator.Request{
		Prompt:       "a red ball",
		AspectRatio:  "1:1",
		OutputFormat: "png",
	})

	require.NoError(t, err)

	require.Len(t, resp.Locators, 1)
	require.Len(t, resp.Resources, 1)
	require.True(t, strings.HasPrefix(resp.Resources[0].Embedded, "data:image/png;base64,"))
	require.Equal(t, len("\x89PNG fake"), resp.Resources[0].SizeBytes)

	require.NotNil(t, resp.PrimaryImage)
	require.Equal(t, resp.Resources[0].Embedded, *resp.PrimaryImage)
	require.Equal(t, server.URL+"/out.png", *resp.ImageURL)

	require.Equal(t, "a red ball", resp.Prompt)
	require.Equal(t, generator.DefaultModel, resp.Model)
	require.Equal(t, "png", resp.Format)
	require.False(t, resp.Degraded)
	require.False(t, resp.GeneratedAt.IsZero())

	require.Equal(t, generator.DefaultModel, stub.model)
	require.Equal(t, "a red ball", stub.input["prompt"])
	require.Equal(t, 1024, stub.input["width"])
	require.Equal(t, 1024, stub.input["height"])
}

func TestGeneratePresetIgnoresDimensions(t *testing.T) {
	tests := map[string]generator.Dimensions{
		"1:1":  {1024, 1024},
		"16:9": {1344, 768},
		"4:3":  {1152, 896},
		"3:2":  {1216, 832},
		"2:3":  {832, 1216},
		"9:16": {768, 1344},
	}

	for ratio, want := range tests {
		t.Run(ratio, func(t *testing.T) {
			stub := returning([]any{}, nil)
			g := generator.New(stub)

			_, err := g.Generate(context.Background(), generator.Request{
				Prompt:      "a red ball",
				AspectRatio: ratio,
				Width:       ptr(13),
				Height:      ptr(17),
			})

			require.NoError(t, err)

			require.Equal(t, ratio, stub.input["aspect_ratio"])
			require.Equal(t, want.Width, stub.input["width"])
			require.Equal(t, want.Height, stub.input["height"])
		})
	}
}

func TestGenerateCustomDimensions(t *testing.T) {
	stub := returning([]any{}, nil)
	g := generator.New(stub)

	resp, err := g.Generate(context.Background(), generator.Request{
		Prompt:      "a red ball",
		AspectRatio: "custom",
		Width:       ptr(640),
		Height:      ptr(480),
	})

	require.NoError(t, err)

	require.Equal(t, "custom", stub.input["aspect_ratio"])
	require.Equal(t, 640, stub.input["width"])
	require.Equal(t, 480, stub.input["height"])

	require.Equal(t, 640, *resp.Parameters.Width)
	require.Equal(t, 480, *resp.Parameters.Height)
}

func TestGenerateInvalidInput(t *testing.T) {
	tests := map[string]generator.Request{
		"empty prompt":       {Prompt: ""},
		"blank prompt":       {Prompt: "   \n\t"},
		"unsupported format": {Prompt: "x", OutputFormat: "bmp"},
		"unsupported ratio":  {Prompt: "x", AspectRatio: "5:4"},
		"custom no width":    {Prompt: "x", AspectRatio: "custom", Height: ptr(512)},
		"custom no height":   {Prompt: "x", AspectRatio: "custom", Width: ptr(512)},
		"custom no size":     {Prompt: "x", AspectRatio: "custom"},
		"custom zero width":  {Prompt: "x", AspectRatio: "custom", Width: ptr(0), Height: ptr(512)},
		"custom negative":    {Prompt: "x", AspectRatio: "custom", Width: ptr(512), Height: ptr(-1)},
	}

	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			stub := returning("https://example.com/a.png", nil)
			g := generator.New(stub)

			resp, err := g.Generate(context.Background(), req)
			require.Nil(t, resp)

			var cerr *classifier.Error
			require.True(t, errors.As(err, &cerr))

			require.Equal(t, classifier.KindInvalidInput, cerr.Kind)
			require.Equal(t, http.StatusBadRequest, cerr.Status)

			require.Zero(t, stub.calls.Load())
		})
	}
}

func TestGenerateFormatCaseInsensitive(t *testing.T) {
	stub := returning([]any{}, nil)
	g := generator.New(stub)

	resp, err := g.Generate(context.Background(), generator.Request{
		Prompt:       "  a red ball  ",
		OutputFormat: "WEBP",
	})

	require.NoError(t, err)

	require.Equal(t, "webp", resp.Format)
	require.Equal(t, "webp", stub.input["output_format"])
	require.Equal(t, "a red ball", stub.input["prompt"])
}

func TestGenerateDefaults(t *testing.T) {
	stub := returning([]any{}, nil)
	g := generator.New(stub, generator.WithModel("black-forest-labs/flux-schnell"))

	resp, err := g.Generate(context.Background(), generator.Request{Prompt: "a red ball"})
	require.NoError(t, err)

	require.Equal(t, "black-forest-labs/flux-schnell", stub.model)
	require.Equal(t, "1:1", stub.input["aspect_ratio"])
	require.Equal(t, "png", stub.input["output_format"])
	require.Equal(t, 1, stub.input["num_outputs"])
	require.Equal(t, 3.5, stub.input["guidance_scale"])
	require.Equal(t, 20, stub.input["num_inference_steps"])

	require.Equal(t, generator.Parameters{
		NumOutputs:     1,
		GuidanceScale:  3.5,
		InferenceSteps: 20,
		Format:         "png",
	}, resp.Parameters)
}

func TestGeneratePlaceholder(t *testing.T) {
	outputs := map[string]provider.Output{
		"nil":         nil,
		"empty list":  []any{},
		"no urls":     []any{"foo", 1},
		"status text": "succeeded",
		"keyed":       map[string]any{"seed": 42},
	}

	for name, output := range outputs {
		t.Run(name, func(t *testing.T) {
			g := generator.New(returning(output, nil))

			resp, err := g.Generate(context.Background(), generator.Request{Prompt: "a red ball"})
			require.NoError(t, err)

			require.True(t, resp.Degraded)
			require.Equal(t, []string{generator.Placeholder}, resp.Locators)

			require.Len(t, resp.Resources, 1)
			require.Equal(t, generator.Placeholder, resp.Resources[0].Embedded)

			require.NotNil(t, resp.PrimaryImage)
			require.Equal(t, generator.Placeholder, *resp.PrimaryImage)
		})
	}
}

func TestGenerateAllResourcesFailed(t *testing.T) {
	server := newImageServer(t)

	g := generator.New(returning([]any{server.URL + "/missing.png"}, nil))

	resp, err := g.Generate(context.Background(), generator.Request{Prompt: "a red ball"})
	require.NoError(t, err)

	require.False(t, resp.Degraded)
	require.Len(t, resp.Resources, 1)
	require.Equal(t, materializer.FetchFailure, resp.Resources[0].Failure)
	require.Nil(t, resp.PrimaryImage)
}

func TestGeneratePrimaryImageSkipsFailures(t *testing.T) {
	server := newImageServer(t)

	g := generator.New(returning([]any{server.URL + "/missing.png", server.URL + "/ok.png"}, nil))

	resp, err := g.Generate(context.Background(), generator.Request{Prompt: "a red ball"})
	require.NoError(t, err)

	require.Len(t, resp.Resources, 2)
	require.True(t, resp.Resources[0].Failed())
	require.NotNil(t, resp.PrimaryImage)
	require.Equal(t, resp.Resources[1].Embedded, *resp.PrimaryImage)
	require.Equal(t, server.URL+"/missing.png", *resp.ImageURL)
}

func TestGenerateProviderError(t *testing.T) {
	tests := []struct {
		err    error
		kind   classifier.Kind
		status int
	}{
		{errors.New("401 authentication failed"), classifier.KindUnauthorized, 401},
		{errors.New("quota exceeded"), classifier.KindRateLimited, 429},
		{errors.New("model not found"), classifier.KindInvalidModel, 400},
		{errors.New("boom"), classifier.KindProviderFailure, 500},
		{provider.ErrNotConfigured, classifier.KindNotConfigured, 500},
		{&provider.Error{StatusCode: 429}, classifier.KindRateLimited, 429},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			stub := returning(nil, tt.err)
			g := generator.New(stub)

			resp, err := g.Generate(context.Background(), generator.Request{Prompt: "a red ball"})
			require.Nil(t, resp)

			var cerr *classifier.Error
			require.True(t, errors.As(err, &cerr))

			require.Equal(t, tt.kind, cerr.Kind)
			require.Equal(t, tt.status, cerr.Status)
			require.Equal(t, int64(1), stub.calls.Load())
		})
	}
}

func TestResolve(t *testing.T) {
	d, ok := generator.Resolve("16:9", 1, 1)
	require.True(t, ok)
	require.Equal(t, generator.Dimensions{Width: 1344, Height: 768}, d)

	d, ok = generator.Resolve("custom", 300, 200)
	require.True(t, ok)
	require.Equal(t, generator.Dimensions{Width: 300, Height: 200}, d)

	_, ok = generator.Resolve("custom", 0, 200)
	require.False(t, ok)

	_, ok = generator.Resolve("7:5", 0, 0)
	require.False(t, ok)
}
