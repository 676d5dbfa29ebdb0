package infra

import (
	"context"
	"net/http"
	"time"
)

// HTTPTimeouts bounds the request lifecycle of the api surface. A zero
// field falls back to a conservative default so a partially configured
// server still cuts off slow clients.
type HTTPTimeouts struct {
	Read  time.Duration
	Write time.Duration
	Idle  time.Duration
}

// HTTPServer is the listener for the draft trigger and status routes. It
// takes the listen address and timeouts directly, so binaries without an
// HTTP surface never depend on the HTTP knobs in Config.
type HTTPServer struct {
	server *http.Server
}

// NewHTTPServer builds a server for handler listening on addr.
func NewHTTPServer(addr string, handler http.Handler, t HTTPTimeouts) *HTTPServer {
	if t.Read <= 0 {
		t.Read = 15 * time.Second
	}
	if t.Write <= 0 {
		t.Write = 30 * time.Second
	}
	if t.Idle <= 0 {
		t.Idle = 60 * time.Second
	}
	return &HTTPServer{server: &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       t.Read,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      t.Write,
		IdleTimeout:       t.Idle,
	}}
}

// Addr reports the configured listen address.
func (s *HTTPServer) Addr() string {
	return s.server.Addr
}

// Start serves until Shutdown is called or the listener fails.
func (s *HTTPServer) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
