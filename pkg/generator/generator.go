package generator

import (
	"context"
	"log/slog"
	"time"

	"github.com/adrianliechti/imagine/pkg/auth"
	"github.com/adrianliechti/imagine/pkg/classifier"
	"github.com/adrianliechti/imagine/pkg/materializer"
	"github.com/adrianliechti/imagine/pkg/normalizer"
	"github.com/adrianliechti/imagine/pkg/provider"

	"github.com/google/uuid"
)

// Placeholder is the 1x1 image returned when a provider output contains no usable locator.
const Placeholder = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type Response struct {
	ID string `json:"id"`

	Prompt string `json:"prompt"`
	Model  string `json:"model"`
	Format string `json:"format"`

	ImageURL     *string `json:"imageUrl"`
	PrimaryImage *string `json:"primaryImageBlob"`

	Locators  []string                `json:"allImages"`
	Resources []materializer.Resource `json:"imageBlobs"`

	// Degraded is set when the provider produced nothing usable and the placeholder was substituted.
	Degraded bool `json:"degraded,omitempty"`

	GeneratedAt time.Time  `json:"generatedAt"`
	Parameters  Parameters `json:"parameters"`
}

type Generator struct {
	generator    provider.Generator
	materializer *materializer.Materializer

	model   string
	timeout time.Duration

	now func() time.Time
}

type Option func(*Generator)

func WithModel(model string) Option {
	return func(g *Generator) {
		g.model = model
	}
}

// WithTimeout bounds the provider call. Zero leaves it to the caller's context.
func WithTimeout(timeout time.Duration) Option {
	return func(g *Generator) {
		g.timeout = timeout
	}
}

func WithMaterializer(m *materializer.Materializer) Option {
	return func(g *Generator) {
		g.materializer = m
	}
}

func New(p provider.Generator, options ...Option) *Generator {
	g := &Generator{
		generator: p,

		model: DefaultModel,

		now: time.Now,
	}

	for _, option := range options {
		option(g)
	}

	if g.materializer == nil {
		g.materializer = materializer.New()
	}

	return g
}

// Timeout returns the bound applied to provider calls. Zero means none.
func (g *Generator) Timeout() time.Duration {
	return g.timeout
}

// Generate validates the request, runs the provider and embeds the resulting
// images. Every returned error is a *classifier.Error. Once the provider
// succeeded a response is always returned, even if no image could be fetched.
func (g *Generator) Generate(ctx context.Context, req Request) (*Response, error) {
	r, err := req.resolve(g.model)

	if err != nil {
		return nil, err
	}

	id := uuid.NewString()

	slog.Info("generating image",
		"id", id,
		"user", auth.User(ctx),
		"model", r.model,
		"aspect_ratio", r.aspectRatio,
		"prompt", r.prompt,
	)

	output, err := g.run(ctx, r)

	if err != nil {
		cerr := classifier.Classify(err)

		slog.Error("image generation failed",
			"id", id,
			"model", r.model,
			"kind", cerr.Kind,
			"error", err,
		)

		return nil, cerr
	}

	locators := normalizer.Normalize(output)

	degraded := len(locators) == 0

	if degraded {
		slog.Warn("no image locators in provider output, using placeholder", "model", r.model)
		locators = []string{Placeholder}
	}

	resources := g.materializer.Materialize(ctx, locators)

	result := &Response{
		ID: id,

		Prompt: r.prompt,
		Model:  r.model,
		Format: r.format,

		Locators:  locators,
		Resources: resources,

		Degraded: degraded,

		GeneratedAt: g.now().UTC(),
		Parameters:  r.parameters,
	}

	result.ImageURL = &locators[0]

	for _, resource := range resources {
		if resource.Failed() {
			continue
		}

		primary := resource.Embedded
		result.PrimaryImage = &primary

		break
	}

	slog.Info("image generated",
		"id", id,
		"model", r.model,
		"images", len(locators),
		"degraded", degraded,
	)

	return result, nil
}

func (g *Generator) run(ctx context.Context, r *resolved) (provider.Output, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	input := provider.Input{
		"prompt": r.prompt,

		"aspect_ratio":  r.aspectRatio,
		"output_format": r.format,

		"width":  r.dimensions.Width,
		"height": r.dimensions.Height,

		"output_quality":    80,
		"safety_tolerance":  2,
		"prompt_upsampling": true,

		"num_outputs":         r.parameters.NumOutputs,
		"guidance_scale":      r.parameters.GuidanceScale,
		"num_inference_steps": r.parameters.InferenceSteps,
	}

	return g.generator.Generate(ctx, r.model, input)
}
