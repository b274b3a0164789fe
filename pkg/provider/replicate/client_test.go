package replicate

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adrianliechti/imagine/pkg/classifier"
	"github.com/adrianliechti/imagine/pkg/normalizer"
	"github.com/adrianliechti/imagine/pkg/provider"

	"github.com/replicate/replicate-go"
	"github.com/stretchr/testify/require"
)

func TestGenerateNotConfigured(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "black-forest-labs/flux-schnell", provider.Input{"prompt": "test"})
	require.ErrorIs(t, err, provider.ErrNotConfigured)
}

func TestConvertError(t *testing.T) {
	err := convertError(&replicate.APIError{
		Status: 404,
		Title:  "Not found",
	})

	var perr *provider.Error
	require.True(t, errors.As(err, &perr))

	require.Equal(t, 404, perr.StatusCode)
	require.Equal(t, "Not found", perr.Message)

	plain := errors.New("connection reset")
	require.Equal(t, plain, convertError(plain))
}

func TestConvertOutputFile(t *testing.T) {
	file := &FileOutput{
		ReadCloser: io.NopCloser(strings.NewReader("data")),
		URL:        "https://replicate.delivery/out.png",
	}

	output := convertOutput(file)

	handle, ok := output.(provider.Handle)
	require.True(t, ok)

	url, err := handle.URL()
	require.NoError(t, err)
	require.Equal(t, "https://replicate.delivery/out.png", url)
}

func TestConvertOutputNested(t *testing.T) {
	output := convertOutput([]any{
		&FileOutput{URL: "https://replicate.delivery/1.png"},
		"https://replicate.delivery/2.png",
	})

	require.Equal(t, []any{"https://replicate.delivery/1.png", "https://replicate.delivery/2.png"}, output)

	output = convertOutput(map[string]any{
		"image":  &FileOutput{URL: "https://replicate.delivery/3.png"},
		"images": []any{&FileOutput{URL: "https://replicate.delivery/4.png"}},
		"seed":   42,
	})

	require.Equal(t, map[string]any{
		"image":  "https://replicate.delivery/3.png",
		"images": []any{"https://replicate.delivery/4.png"},
		"seed":   42,
	}, output)
}

func TestConvertOutputString(t *testing.T) {
	require.Equal(t, "https://replicate.delivery/out.png", convertOutput("https://replicate.delivery/out.png"))
}

// newPredictionServer answers every prediction request with the given JSON
// and serves an image for any other GET.
func newPredictionServer(t *testing.T, prediction func(url string) string) *httptest.Server {
	var server *httptest.Server

	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(prediction(server.URL)))
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("\x89PNG"))
	}))

	t.Cleanup(server.Close)

	return server
}

func TestGenerateFailedPrediction(t *testing.T) {
	server := newPredictionServer(t, func(string) string {
		return `{"id": "p1", "status": "failed", "error": "NSFW content detected"}`
	})

	c, err := New(WithURL(server.URL), WithToken("r8_test"), WithClient(server.Client()))
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "black-forest-labs/flux-schnell", provider.Input{"prompt": "test"})
	require.Error(t, err)

	var perr *provider.Error
	require.True(t, errors.As(err, &perr))
	require.Equal(t, http.StatusInternalServerError, perr.StatusCode)
	require.Contains(t, perr.Message, "Prediction failed: NSFW content detected")

	cerr := classifier.Classify(err)
	require.Equal(t, classifier.KindProviderFailure, cerr.Kind)
	require.Equal(t, http.StatusInternalServerError, cerr.Status)
}

func TestGenerateFileOutput(t *testing.T) {
	server := newPredictionServer(t, func(url string) string {
		return `{"id": "p1", "status": "succeeded", "output": "` + url + `/out.png"}`
	})

	c, err := New(WithURL(server.URL), WithToken("r8_test"), WithClient(server.Client()), WithFileOutput())
	require.NoError(t, err)

	output, err := c.Generate(context.Background(), "black-forest-labs/flux-schnell", provider.Input{"prompt": "test"})
	require.NoError(t, err)

	_, ok := output.(provider.Handle)
	require.True(t, ok)

	require.Equal(t, []string{server.URL + "/out.png"}, normalizer.Normalize(output))
}

func TestGenerateURLOutput(t *testing.T) {
	server := newPredictionServer(t, func(url string) string {
		return `{"id": "p1", "status": "succeeded", "output": ["` + url + `/1.png", "` + url + `/2.png"]}`
	})

	c, err := New(WithURL(server.URL), WithToken("r8_test"), WithClient(server.Client()))
	require.NoError(t, err)

	output, err := c.Generate(context.Background(), "black-forest-labs/flux-schnell", provider.Input{"prompt": "test"})
	require.NoError(t, err)

	require.Equal(t, []string{server.URL + "/1.png", server.URL + "/2.png"}, normalizer.Normalize(output))
}
