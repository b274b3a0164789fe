package config

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/adrianliechti/imagine/pkg/generator"
	"github.com/adrianliechti/imagine/pkg/limiter"
	"github.com/adrianliechti/imagine/pkg/otel"
	"github.com/adrianliechti/imagine/pkg/provider"
	"github.com/adrianliechti/imagine/pkg/provider/bedrock"
	"github.com/adrianliechti/imagine/pkg/provider/google"
	"github.com/adrianliechti/imagine/pkg/provider/openai"
	"github.com/adrianliechti/imagine/pkg/provider/replicate"
	"github.com/adrianliechti/imagine/pkg/provider/replicate/flux"
	"github.com/adrianliechti/imagine/pkg/router/adaptive"
	"github.com/adrianliechti/imagine/pkg/router/roundrobin"
)

type providerConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	Region string `yaml:"region"`

	FileOutput bool `yaml:"file_output"`

	Proxy *proxyConfig `yaml:"proxy"`

	Limit *int `yaml:"limit"`

	Models []modelConfig `yaml:"models"`
}

type modelConfig struct {
	ID string `yaml:"id"`

	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`

	DefaultWidth  int `yaml:"default_width"`
	DefaultHeight int `yaml:"default_height"`
}

func (c *Config) registerProviders(f *configFile) error {
	if len(f.Providers) == 0 {
		return errors.New("no providers configured")
	}

	models := &modelGenerator{
		routes: map[string][]provider.Generator{},
	}

	for _, p := range f.Providers {
		g, err := createGenerator(p)

		if err != nil {
			return err
		}

		if models.fallback == nil {
			models.fallback = g
		}

		for _, m := range p.Models {
			if m.ID == "" {
				return errors.New("model id missing for provider " + p.Type)
			}

			if _, ok := models.routes[m.ID]; !ok {
				c.Models = append(c.Models, createModel(m))
			}

			models.routes[m.ID] = append(models.routes[m.ID], g)
		}
	}

	if err := models.compile(f.Generation.Router); err != nil {
		return err
	}

	model := f.Generation.Model

	if model == "" {
		model = generator.DefaultModel
	}

	c.Fallbacks = f.Generation.Fallbacks

	timeout := f.Generation.Timeout

	if timeout == 0 {
		timeout = DefaultTimeout
	}

	c.Generator = generator.New(models,
		generator.WithModel(model),
		generator.WithTimeout(timeout),
		generator.WithMaterializer(createMaterializer(f.Generation)),
	)

	return nil
}

func createGenerator(cfg providerConfig) (provider.Generator, error) {
	client, err := cfg.Proxy.proxyClient()

	if err != nil {
		return nil, err
	}

	var g provider.Generator

	switch strings.ToLower(cfg.Type) {
	case "replicate":
		g, err = replicateGenerator(cfg, client)

	case "openai":
		g, err = openaiGenerator(cfg, client)

	case "google", "gemini":
		g, err = googleGenerator(cfg, client)

	case "bedrock":
		g, err = bedrockGenerator(cfg, client)

	default:
		return nil, errors.New("invalid provider type: " + cfg.Type)
	}

	if err != nil {
		return nil, err
	}

	limit, err := createLimiter(cfg.Limit)

	if err != nil {
		return nil, err
	}

	if limit != nil {
		g = limiter.NewGenerator(limit, g)
	}

	return otel.NewGenerator(strings.ToLower(cfg.Type), g), nil
}

func replicateGenerator(cfg providerConfig, client *http.Client) (provider.Generator, error) {
	var options []replicate.Option

	if cfg.URL != "" {
		options = append(options, replicate.WithURL(cfg.URL))
	}

	if cfg.Token != "" {
		options = append(options, replicate.WithToken(cfg.Token))
	}

	if client != nil {
		options = append(options, replicate.WithClient(client))
	}

	if cfg.FileOutput {
		options = append(options, replicate.WithFileOutput())
	}

	g, err := replicate.New(options...)

	if err != nil {
		return nil, err
	}

	return flux.New(g), nil
}

func openaiGenerator(cfg providerConfig, client *http.Client) (provider.Generator, error) {
	var options []openai.Option

	if cfg.Token != "" {
		options = append(options, openai.WithToken(cfg.Token))
	}

	if client != nil {
		options = append(options, openai.WithClient(client))
	}

	return openai.NewGenerator(cfg.URL, options...)
}

func googleGenerator(cfg providerConfig, client *http.Client) (provider.Generator, error) {
	var options []google.Option

	if cfg.Token != "" {
		options = append(options, google.WithToken(cfg.Token))
	}

	if client != nil {
		options = append(options, google.WithClient(client))
	}

	return google.NewGenerator(options...)
}

func bedrockGenerator(cfg providerConfig, client *http.Client) (provider.Generator, error) {
	var options []bedrock.Option

	if cfg.Region != "" {
		options = append(options, bedrock.WithRegion(cfg.Region))
	}

	if client != nil {
		options = append(options, bedrock.WithClient(client))
	}

	return bedrock.NewGenerator(options...)
}

func createModel(cfg modelConfig) provider.Model {
	model := provider.Model{
		ID: cfg.ID,
	}

	if m, ok := flux.Models[cfg.ID]; ok {
		model = m
	}

	if cfg.Name != "" {
		model.Name = cfg.Name
	}

	if cfg.Description != "" {
		model.Description = cfg.Description
	}

	if cfg.MaxWidth > 0 {
		model.MaxWidth = cfg.MaxWidth
	}

	if cfg.MaxHeight > 0 {
		model.MaxHeight = cfg.MaxHeight
	}

	if cfg.DefaultWidth > 0 {
		model.DefaultWidth = cfg.DefaultWidth
	}

	if cfg.DefaultHeight > 0 {
		model.DefaultHeight = cfg.DefaultHeight
	}

	if model.Name == "" {
		model.Name = cfg.ID
	}

	return model
}

// modelGenerator dispatches a request to the provider serving the model.
// Unlisted models go to the first configured provider.
type modelGenerator struct {
	routes   map[string][]provider.Generator
	compiled map[string]provider.Generator

	fallback provider.Generator
}

func (m *modelGenerator) compile(strategy string) error {
	m.compiled = make(map[string]provider.Generator, len(m.routes))

	for model, generators := range m.routes {
		generators = slices.Compact(generators)

		if len(generators) == 1 {
			m.compiled[model] = generators[0]
			continue
		}

		var g provider.Generator
		var err error

		switch strings.ToLower(strategy) {
		case "", "roundrobin":
			g, err = roundrobin.NewGenerator(generators...)

		case "adaptive":
			g, err = adaptive.NewGenerator(generators...)

		default:
			return errors.New("invalid router type: " + strategy)
		}

		if err != nil {
			return err
		}

		m.compiled[model] = g
	}

	return nil
}

func (m *modelGenerator) Generate(ctx context.Context, model string, input provider.Input) (provider.Output, error) {
	if g, ok := m.compiled[model]; ok {
		return g.Generate(ctx, model, input)
	}

	return m.fallback.Generate(ctx, model, input)
}
