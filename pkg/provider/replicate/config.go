package replicate

import (
	"net/http"

	"github.com/replicate/replicate-go"
)

type Config struct {
	url   string
	token string

	fileOutput bool

	client *http.Client
}

type Option func(*Config)

func WithURL(url string) Option {
	return func(c *Config) {
		c.url = url
	}
}

func WithToken(token string) Option {
	return func(c *Config) {
		c.token = token
	}
}

func WithClient(client *http.Client) Option {
	return func(c *Config) {
		c.client = client
	}
}

// WithFileOutput makes file results come back as lazy handles instead of URL strings.
func WithFileOutput() Option {
	return func(c *Config) {
		c.fileOutput = true
	}
}

func (c *Config) Options() []replicate.ClientOption {
	options := []replicate.ClientOption{
		replicate.WithToken(c.token),
	}

	if c.url != "" {
		options = append(options, replicate.WithBaseURL(c.url))
	}

	if c.client != nil {
		options = append(options, replicate.WithHTTPClient(c.client))
	}

	return options
}
