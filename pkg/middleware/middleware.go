package middleware

import (
	"context"
	"net/http"
	"time"
)

// System manages an ordered stack of HTTP middleware. The first middleware
// added is the outermost.
type System interface {
	Use(mw ...func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
	Len() int
}

type stack struct {
	mws []func(http.Handler) http.Handler
}

// New creates a System seeded with the given middleware.
func New(mws ...func(http.Handler) http.Handler) System {
	s := &stack{}
	s.Use(mws...)
	return s
}

func (s *stack) Use(mws ...func(http.Handler) http.Handler) {
	for _, fn := range mws {
		if fn != nil {
			s.mws = append(s.mws, fn)
		}
	}
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.mws) - 1; i >= 0; i-- {
		handler = s.mws[i](handler)
	}
	return handler
}

func (s *stack) Len() int {
	return len(s.mws)
}

// MaxBytes caps request bodies at limit bytes. Reads past the limit fail,
// which JSON decoding surfaces as an invalid request.
func MaxBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Timeout bounds each request context by d. Downstream calls that honor the
// context fail once it expires. A non-positive d disables the bound.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
