// Package ai provides the text-generation providers clizin sends diffs to.
package ai

import (
	"context"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 60 * time.Second

// GenerateRequest contains the data needed for one generation call.
type GenerateRequest struct {
	Prompt string
	Model  string
	APIKey string
}

// GenerateResponse contains the generated text, trimmed of surrounding whitespace.
type GenerateResponse struct {
	Text     string
	Model    string
	Duration time.Duration
}

// ProviderConfig contains transport settings shared by providers.
type ProviderConfig struct {
	// Endpoint overrides the provider base URL.
	Endpoint string
	Timeout  time.Duration
}

// Provider is the single capability every provider variant offers.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
}

func (c ProviderConfig) httpClient() *http.Client {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
