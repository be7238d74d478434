package routes

import (
	"net/http"

	"github.com/JaimeStill/facturas/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler and, optionally,
// the OpenAPI operation that documents it.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}
