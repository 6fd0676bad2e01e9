// Package httpclient wraps net/http with configurable timeouts and redirect
// policies shared by all outbound requests.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Config defines the setup for the HTTP client.
type Config struct {
	Timeout      time.Duration
	MaxRedirects int
	// Provide a custom Transport, e.g. for tests.
	Transport http.RoundTripper
}

// Client wraps a standard http.Client to provide configurable timeouts and
// redirect policies.
type Client struct {
	*http.Client
}

// New creates an HTTP client from the provided configuration.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	c := &http.Client{
		Timeout: cfg.Timeout,
	}

	if cfg.MaxRedirects > 0 {
		c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", cfg.MaxRedirects)
			}
			return nil
		}
	}

	if cfg.Transport != nil {
		c.Transport = cfg.Transport
	}

	return &Client{Client: c}
}

// Do executes an HTTP request bound to the provided context. The context
// controls cancellation independent of the client timeout.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if ctx == nil {
		return nil, errors.New("httpclient: context cannot be nil")
	}

	resp, err := c.Client.Do(req.Clone(ctx))
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	return resp, nil
}
