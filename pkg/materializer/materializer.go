package materializer

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultContentType = "image/png"

	DefaultTimeout = 30 * time.Second
	DefaultMaxSize = 32 << 20
)

// FetchFailure is the reason recorded on a resource that could not be fetched.
const FetchFailure = "Failed to fetch image"

// Resource is a locator resolved into a self-contained image. Embedded is
// empty and Failure set when the locator could not be fetched.
type Resource struct {
	Locator string `json:"url"`

	Embedded  string `json:"blob,omitempty"`
	SizeBytes int    `json:"size,omitempty"`

	Failure string `json:"error,omitempty"`
}

func (r Resource) Failed() bool {
	return r.Failure != ""
}

type Materializer struct {
	client *http.Client

	timeout time.Duration
	maxSize int64

	concurrency int
}

type Option func(*Materializer)

func WithClient(client *http.Client) Option {
	return func(m *Materializer) {
		m.client = client
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(m *Materializer) {
		m.timeout = timeout
	}
}

func WithMaxSize(size int64) Option {
	return func(m *Materializer) {
		m.maxSize = size
	}
}

// WithConcurrency bounds the number of fetches in flight. Zero means unbounded.
func WithConcurrency(n int) Option {
	return func(m *Materializer) {
		m.concurrency = n
	}
}

func New(options ...Option) *Materializer {
	m := &Materializer{
		timeout: DefaultTimeout,
		maxSize: DefaultMaxSize,
	}

	for _, option := range options {
		option(m)
	}

	if m.client == nil {
		m.client = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return m
}

// Materialize resolves every locator concurrently. The result has the same
// length and order as the input; a failing locator only marks its own entry.
func (m *Materializer) Materialize(ctx context.Context, locators []string) []Resource {
	result := make([]Resource, len(locators))

	var g errgroup.Group

	if m.concurrency > 0 {
		g.SetLimit(m.concurrency)
	}

	for i, locator := range locators {
		g.Go(func() error {
			result[i] = m.materialize(ctx, locator)
			return nil
		})
	}

	g.Wait()

	return result
}

func (m *Materializer) materialize(ctx context.Context, locator string) Resource {
	if strings.HasPrefix(locator, "data:") {
		return Resource{
			Locator: locator,

			Embedded:  locator,
			SizeBytes: len(locator),
		}
	}

	data, contentType, err := m.fetch(ctx, locator)

	if err != nil {
		slog.Warn("failed to fetch image", "url", locator, "error", err)

		return Resource{
			Locator: locator,
			Failure: FetchFailure,
		}
	}

	return Resource{
		Locator: locator,

		Embedded:  "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data),
		SizeBytes: len(data),
	}
}

func (m *Materializer) fetch(ctx context.Context, url string) ([]byte, string, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)

	if err != nil {
		return nil, "", err
	}

	resp, err := m.client.Do(req)

	if err != nil {
		return nil, "", err
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, m.maxSize+1))

	if err != nil {
		return nil, "", err
	}

	if int64(len(data)) > m.maxSize {
		return nil, "", fmt.Errorf("image exceeds %d bytes", m.maxSize)
	}

	return data, contentType(resp.Header.Get("Content-Type")), nil
}

func contentType(val string) string {
	if val == "" {
		return DefaultContentType
	}

	if mediaType, _, err := mime.ParseMediaType(val); err == nil {
		return mediaType
	}

	return val
}
