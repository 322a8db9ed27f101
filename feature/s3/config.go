package s3

import (
	"s3kit/core/awscreds"
	"s3kit/core/transport"
)

// Config holds configuration for the storage client.
type Config struct {
	// Endpoint is the URI of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"https://s3.amazonaws.com"`
	// AccessKey is the access key identifier. Empty means anonymous access.
	AccessKey string `mapstructure:"access_key" default:""`
	// SecretKey is the secret key paired with AccessKey.
	SecretKey string `mapstructure:"secret_key" default:""`
}

// Credentials returns the configured credential pair, or nil when no access
// key is set so requests go out unsigned.
func (c Config) Credentials() *awscreds.Credentials {
	if c.AccessKey == "" {
		return nil
	}
	return awscreds.New(c.AccessKey, c.SecretKey)
}

// ParseEndpoint parses the configured endpoint URI.
func (c Config) ParseEndpoint() (*awscreds.Endpoint, error) {
	return awscreds.NewEndpoint(c.Endpoint)
}

// NewFromConfig builds a Client from configuration, with an HTTP transport
// tuned per tcfg. Options may still override any part.
func NewFromConfig(cfg Config, tcfg transport.Config, opts ...Option) (*Client, error) {
	endpoint, err := cfg.ParseEndpoint()
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithTransport(transport.NewHTTPDoer(tcfg))}, opts...)
	return New(cfg.Credentials(), endpoint, opts...), nil
}
