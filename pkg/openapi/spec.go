// Package openapi builds and serves the OpenAPI 3.1 document describing
// the service's routes.
package openapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnsupportedMethod is returned when documenting a method the document
// model does not carry.
var ErrUnsupportedMethod = errors.New("unsupported method")

var documented = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

type Spec struct {
	OpenAPI    string              `json:"openapi"`
	Info       *Info               `json:"info"`
	Servers    []*Server           `json:"servers,omitempty"`
	Paths      map[string]PathItem `json:"paths"`
	Components *Components         `json:"components,omitempty"`
}

// NewSpec starts a document seeded with the shared failure components.
func NewSpec(title, version string) *Spec {
	return &Spec{
		OpenAPI:    "3.1.0",
		Info:       &Info{Title: title, Version: version},
		Paths:      make(map[string]PathItem),
		Components: NewComponents(),
	}
}

func (s *Spec) AddServer(url string) {
	s.Servers = append(s.Servers, &Server{URL: url})
}

func (s *Spec) SetDescription(desc string) {
	s.Info.Description = desc
}

// AddOperation documents op under path. Documenting the same path and
// method twice keeps the last operation.
func (s *Spec) AddOperation(path, method string, op *Operation) error {
	if !documented[method] {
		return fmt.Errorf("%w %q for %s", ErrUnsupportedMethod, method, path)
	}

	item := s.Paths[path]
	if item == nil {
		item = PathItem{}
		s.Paths[path] = item
	}
	item[strings.ToLower(method)] = op
	return nil
}
