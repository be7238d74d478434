package module

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/JaimeStill/facturas/pkg/handlers"
)

// Router dispatches on the first path segment to a mounted Module. Paths no
// module claims go to a native ServeMux, and paths it cannot match get a
// JSON not_found failure.
type Router struct {
	modules map[string]*Module
	native  *http.ServeMux
}

func NewRouter() *Router {
	return &Router{
		modules: make(map[string]*Module),
		native:  http.NewServeMux(),
	}
}

// HandleNative registers a top-level handler such as a health probe.
func (r *Router) HandleNative(pattern string, handler http.HandlerFunc) {
	r.native.HandleFunc(pattern, handler)
}

// Mount panics when two modules share a prefix.
func (r *Router) Mount(modules ...*Module) {
	for _, m := range modules {
		if _, exists := r.modules[m.prefix]; exists {
			panic(fmt.Sprintf("module prefix already mounted: %s", m.prefix))
		}
		r.modules[m.prefix] = m
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if p := req.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
		req.URL.Path = strings.TrimSuffix(p, "/")
	}

	if m, ok := r.modules[firstSegment(req.URL.Path)]; ok {
		m.ServeHTTP(w, req)
		return
	}

	if h, pattern := r.native.Handler(req); pattern != "" {
		h.ServeHTTP(w, req)
		return
	}

	handlers.RespondJSON(w, http.StatusNotFound, handlers.Failure{
		Error: handlers.ErrorDetail{
			Code:    "not_found",
			Message: fmt.Sprintf("no route for %s %s", req.Method, req.URL.Path),
		},
	})
}

func firstSegment(path string) string {
	if i := strings.IndexByte(path[min(1, len(path)):], '/'); i >= 0 {
		return path[:i+1]
	}
	return path
}
