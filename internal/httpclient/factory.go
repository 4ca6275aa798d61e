// Package httpclient centralizes outbound HTTP transport construction.
// Every direct HTTP consumer asks the factory for a client instead of
// building its own, so pooling and timeout policy live in one place.
package httpclient

import (
	"net/http"
	"time"

	"github.com/fraudlens-ai/fraudlens/pkg/types"
)

// Defaults applied when the HTTP section leaves a knob unset.
const (
	DefaultTimeout         = 60 * time.Second
	DefaultMaxIdleConns    = 100
	DefaultMaxIdlePerHost  = 10
	DefaultIdleConnTimeout = 90 * time.Second
)

// Factory hands out HTTP clients that share one pooled transport.
type Factory struct {
	cfg       types.HTTPClientConfig
	transport *http.Transport
}

// NewFactory builds a Factory from the HTTP client config, filling in
// defaults for unset knobs.
func NewFactory(cfg types.HTTPClientConfig) *Factory {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.MaxIdlePerHost <= 0 {
		cfg.MaxIdlePerHost = DefaultMaxIdlePerHost
	}
	if cfg.IdleConnTimeout <= 0 {
		cfg.IdleConnTimeout = DefaultIdleConnTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = cfg.MaxIdleConns
	transport.MaxIdleConnsPerHost = cfg.MaxIdlePerHost
	transport.IdleConnTimeout = cfg.IdleConnTimeout

	return &Factory{cfg: cfg, transport: transport}
}

// CreateClient returns a client with the factory's default timeout.
func (f *Factory) CreateClient() *http.Client {
	return f.CreateClientWithTimeout(f.cfg.Timeout)
}

// CreateClientWithTimeout returns a client with a per-target timeout.
// All clients share the factory's pooled transport.
func (f *Factory) CreateClientWithTimeout(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = f.cfg.Timeout
	}
	return &http.Client{
		Transport: f.transport,
		Timeout:   timeout,
	}
}

// CloseIdleConnections drops pooled connections, for shutdown.
func (f *Factory) CloseIdleConnections() {
	f.transport.CloseIdleConnections()
}
