package routes

import (
	"net/http"
	"slices"

	"github.com/JaimeStill/facturas/pkg/middleware"
	"github.com/JaimeStill/facturas/pkg/openapi"
)

// Group organizes routes under a common prefix with shared tags and middleware.
// Middleware wraps every route in the group and its children, outermost first.
type Group struct {
	Prefix     string
	Tags       []string
	Middleware []func(http.Handler) http.Handler
	Routes     []Route
	Children   []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", nil, group)
	}
}

func registerGroup(mux *http.ServeMux, parentPrefix string, parentMW []func(http.Handler) http.Handler, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	mw := slices.Concat(parentMW, group.Middleware)

	for _, route := range group.Routes {
		pattern := route.Method + " " + fullPrefix + route.Pattern
		mux.Handle(pattern, middleware.New(mw...).Apply(route.Handler))
	}
	for _, child := range group.Children {
		registerGroup(mux, fullPrefix, mw, child)
	}
}

// Document adds every route carrying an OpenAPI operation to spec, with
// paths rooted at basePath. Group tags apply to operations without their own.
func Document(spec *openapi.Spec, basePath string, groups ...Group) error {
	for _, group := range groups {
		if err := documentGroup(spec, basePath, nil, group); err != nil {
			return err
		}
	}
	return nil
}

func documentGroup(spec *openapi.Spec, parentPrefix string, parentTags []string, group Group) error {
	fullPrefix := parentPrefix + group.Prefix
	tags := group.Tags
	if len(tags) == 0 {
		tags = parentTags
	}

	for _, route := range group.Routes {
		if route.OpenAPI == nil {
			continue
		}
		op := *route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = tags
		}
		if err := spec.AddOperation(fullPrefix+route.Pattern, route.Method, &op); err != nil {
			return err
		}
	}
	for _, child := range group.Children {
		if err := documentGroup(spec, fullPrefix, tags, child); err != nil {
			return err
		}
	}
	return nil
}
