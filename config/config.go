package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/adrianliechti/imagine/pkg/auth"
	"github.com/adrianliechti/imagine/pkg/generator"
	"github.com/adrianliechti/imagine/pkg/materializer"
	"github.com/adrianliechti/imagine/pkg/provider"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

// DefaultTimeout bounds a provider call when generation.timeout is not set.
const DefaultTimeout = 5 * time.Minute

type Config struct {
	Address string

	Development bool

	CORS []string

	Authorizers []auth.Provider

	Models    []provider.Model
	Fallbacks []string

	Generator *generator.Generator
}

// Parse reads the config file at path. An empty path yields the defaults
// driven by environment variables.
func Parse(path string) (*Config, error) {
	file := defaultFile()

	if path != "" {
		f, err := parseFile(path)

		if err != nil {
			return nil, err
		}

		file = f
	}

	return load(file)
}

func load(file *configFile) (*Config, error) {
	c := &Config{
		Address: ":3000",

		Development: file.Development || os.Getenv("NODE_ENV") == "development" || os.Getenv("ENV") == "development",

		CORS: []string{"*"},
	}

	if file.Address != "" {
		c.Address = file.Address
	}

	if len(file.CORS) > 0 {
		c.CORS = file.CORS
	}

	if err := c.registerAuthorizer(file); err != nil {
		return nil, err
	}

	if len(c.Authorizers) == 0 {
		slog.Warn("no authorizers configured, authenticated routes reject every request")
	}

	if err := c.registerProviders(file); err != nil {
		return nil, err
	}

	return c, nil
}

type configFile struct {
	Address     string   `yaml:"address"`
	Development bool     `yaml:"development"`
	CORS        []string `yaml:"cors"`

	Authorizers []authorizerConfig `yaml:"authorizers"`

	Providers []providerConfig `yaml:"providers"`

	Generation generationConfig `yaml:"generation"`
}

type generationConfig struct {
	Model     string   `yaml:"model"`
	Fallbacks []string `yaml:"fallbacks"`

	Router string `yaml:"router"`

	Timeout time.Duration `yaml:"timeout"`

	FetchTimeout     time.Duration `yaml:"fetch_timeout"`
	FetchMaxSize     int64         `yaml:"fetch_max_size"`
	FetchConcurrency int           `yaml:"fetch_concurrency"`
}

func parseFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	var config configFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func defaultFile() *configFile {
	f := &configFile{
		Address: addressFromEnv(),

		Providers: []providerConfig{
			{
				Type:  "replicate",
				Token: os.Getenv("REPLICATE_API_TOKEN"),

				Models: []modelConfig{
					{
						ID: generator.DefaultModel,
					},
					{
						ID: "stability-ai/stable-diffusion:db21e45d3f7023abc2a46ee38a23973f6dce16bb082a930b0c49861f96d1e5bf",

						Name:        "Stable Diffusion",
						Description: "Classic stable diffusion model",

						MaxWidth:  1024,
						MaxHeight: 1024,

						DefaultWidth:  512,
						DefaultHeight: 512,
					},
				},
			},
		},
	}

	if token := os.Getenv("AUTH_TOKEN"); token != "" {
		f.Authorizers = append(f.Authorizers, authorizerConfig{
			Type:  "static",
			Token: token,
		})
	}

	return f
}

func addressFromEnv() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}

	return ""
}

func createLimiter(limit *int) (*rate.Limiter, error) {
	if limit == nil {
		return nil, nil
	}

	if *limit <= 0 {
		return nil, errors.New("provider limit must be positive")
	}

	return rate.NewLimiter(rate.Limit(*limit), *limit), nil
}

func createMaterializer(cfg generationConfig) *materializer.Materializer {
	var options []materializer.Option

	if cfg.FetchTimeout > 0 {
		options = append(options, materializer.WithTimeout(cfg.FetchTimeout))
	}

	if cfg.FetchMaxSize > 0 {
		options = append(options, materializer.WithMaxSize(cfg.FetchMaxSize))
	}

	if cfg.FetchConcurrency > 0 {
		options = append(options, materializer.WithConcurrency(cfg.FetchConcurrency))
	}

	return materializer.New(options...)
}
