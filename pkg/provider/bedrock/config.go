package bedrock

import (
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
)

type Config struct {
	region string

	client *http.Client
}

type Option func(*Config)

func WithRegion(region string) Option {
	return func(c *Config) {
		c.region = region
	}
}

func WithClient(client *http.Client) Option {
	return func(c *Config) {
		c.client = client
	}
}

func (c *Config) loadOptions() []func(*config.LoadOptions) error {
	var options []func(*config.LoadOptions) error

	if c.region != "" {
		options = append(options, config.WithRegion(c.region))
	}

	if c.client != nil {
		options = append(options, config.WithHTTPClient(c.client))
	}

	return options
}

func isStabilityModel(model string) bool {
	model = strings.ToLower(model)

	return strings.Contains(model, "stability") || strings.Contains(model, "stable")
}
