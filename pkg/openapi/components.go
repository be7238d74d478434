package openapi

import (
	"maps"
	"net/http"
)

// Failure response component names.
const (
	ResponseBadRequest    = "BadRequest"
	ResponseUnauthorized  = "Unauthorized"
	ResponseMisconfigured = "Misconfigured"
	ResponseBadGateway    = "BadGateway"
)

// NewComponents creates Components with the failure envelope schema and the
// error responses every endpoint may return.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Failure": {
				Type:     "object",
				Required: []string{"success", "error"},
				Properties: map[string]*Schema{
					"success": {Type: "boolean", Example: false},
					"error": {
						Type:     "object",
						Required: []string{"code", "message"},
						Properties: map[string]*Schema{
							"code":    {Type: "string", Description: "Stable machine-readable error code"},
							"message": {Type: "string", Description: "Error message"},
						},
					},
				},
			},
		},
		Responses: map[string]*Response{
			ResponseBadRequest:    failure("Invalid request (invalid_request)"),
			ResponseUnauthorized:  failure("Missing or wrong bearer token (unauthorized)"),
			ResponseMisconfigured: failure("A required configuration value is missing (service_misconfigured)"),
			ResponseBadGateway:    failure("An upstream provider failed (extraction_failed)"),
		},
		SecuritySchemes: map[string]*SecurityScheme{
			BearerAuth: {Type: "http", Scheme: "bearer"},
		},
	}
}

// ErrorResponses returns references to the standard failure responses keyed by status.
func ErrorResponses() map[int]*Response {
	return map[int]*Response{
		http.StatusBadRequest:          ResponseRef(ResponseBadRequest),
		http.StatusUnauthorized:        ResponseRef(ResponseUnauthorized),
		http.StatusInternalServerError: ResponseRef(ResponseMisconfigured),
		http.StatusBadGateway:          ResponseRef(ResponseBadGateway),
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}

func failure(description string) *Response {
	return ResponseJSON(description, "Failure")
}
