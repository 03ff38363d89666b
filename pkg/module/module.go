// Package module provides mountable HTTP modules with isolated middleware
// chains. A module owns a single top-level path prefix and strips it before
// delegating to its handler.
package module

import (
	"fmt"
	"net/http"
	"strings"
)

// Module is a self-contained HTTP handler mounted under a path prefix.
type Module struct {
	prefix     string
	handler    http.Handler
	middleware []func(http.Handler) http.Handler
}

// New creates a module for the given prefix. The prefix must be a single
// path segment with a leading slash, e.g. "/api". Invalid prefixes panic
// since they indicate a programming error at wiring time.
func New(prefix string, handler http.Handler) *Module {
	if prefix == "" || !strings.HasPrefix(prefix, "/") {
		panic(fmt.Sprintf("module: invalid prefix %q: must start with /", prefix))
	}
	if strings.Count(prefix, "/") > 1 || prefix == "/" {
		panic(fmt.Sprintf("module: invalid prefix %q: must be a single path segment", prefix))
	}

	return &Module{
		prefix:  prefix,
		handler: handler,
	}
}

// Prefix returns the module's mount prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware to the module's chain. Middleware wraps the handler
// in registration order (the first registered runs outermost).
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware = append(m.middleware, mw)
}

// Handler returns the module's handler wrapped with its middleware chain.
func (m *Module) Handler() http.Handler {
	h := m.handler
	for i := len(m.middleware) - 1; i >= 0; i-- {
		h = m.middleware[i](h)
	}
	return h
}

// Mount registers the module on the mux, stripping the prefix before
// delegating to the module handler.
func (m *Module) Mount(mux *http.ServeMux) {
	mux.Handle(m.prefix+"/", http.StripPrefix(m.prefix, m.Handler()))
}
