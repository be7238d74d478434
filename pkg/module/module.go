// Package module mounts prefixed sub-applications, each with its own
// middleware stack, behind a single top-level router.
package module

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/JaimeStill/facturas/pkg/middleware"
)

// ErrInvalidPrefix reports a module prefix that is not a single-level path.
var ErrInvalidPrefix = errors.New("invalid module prefix")

// Module serves requests under a path prefix. The prefix is stripped before
// the request reaches the inner handler.
type Module struct {
	prefix     string
	inner      http.Handler
	middleware middleware.System

	once    sync.Once
	handler http.Handler
}

// New creates a Module for prefix (e.g. "/api") seeded with mws. It panics
// when prefix is not a single-level path.
func New(prefix string, inner http.Handler, mws ...func(http.Handler) http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		inner:      inner,
		middleware: middleware.New(mws...),
	}
}

func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware. The chain is assembled on the first request, so
// middleware added after that point is ignored.
func (m *Module) Use(mws ...func(http.Handler) http.Handler) {
	m.middleware.Use(mws...)
}

func (m *Module) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	m.once.Do(func() {
		m.handler = m.middleware.Apply(m.inner)
	})
	m.handler.ServeHTTP(w, strip(req, m.prefix))
}

func strip(req *http.Request, prefix string) *http.Request {
	path := strings.TrimPrefix(req.URL.Path, prefix)
	if path == "" {
		path = "/"
	}

	out := req.Clone(req.Context())
	out.URL.Path = path
	out.URL.RawPath = ""
	return out
}

func validatePrefix(prefix string) error {
	switch {
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("%w %q: must start with /", ErrInvalidPrefix, prefix)
	case len(prefix) == 1 || strings.Count(prefix, "/") != 1:
		return fmt.Errorf("%w %q: must be a single-level path", ErrInvalidPrefix, prefix)
	}
	return nil
}
