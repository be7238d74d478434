package openapi

import "strings"

const mediaJSON = "application/json"

type Info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

type Server struct {
	URL string `json:"url"`
}

// PathItem maps a lowercase HTTP method ("get", "post") to its operation,
// which is the shape OpenAPI serializes.
type PathItem map[string]*Operation

// Operation returns the operation documented for method, or nil.
func (p PathItem) Operation(method string) *Operation {
	return p[strings.ToLower(method)]
}

type Operation struct {
	OperationID string                `json:"operationId,omitempty"`
	Summary     string                `json:"summary,omitempty"`
	Description string                `json:"description,omitempty"`
	Tags        []string              `json:"tags,omitempty"`
	RequestBody *RequestBody          `json:"requestBody,omitempty"`
	Responses   map[int]*Response     `json:"responses"`
	Security    []map[string][]string `json:"security,omitempty"`
}

type RequestBody struct {
	Required bool                  `json:"required,omitempty"`
	Content  map[string]*MediaType `json:"content"`
}

// Response is either inline (Description and Content) or a component
// reference (Ref only).
type Response struct {
	Ref         string                `json:"$ref,omitempty"`
	Description string                `json:"description,omitempty"`
	Content     map[string]*MediaType `json:"content,omitempty"`
}

type MediaType struct {
	Schema *Schema `json:"schema,omitempty"`
}

// Schema is the JSON Schema subset the published documents use.
type Schema struct {
	Ref         string             `json:"$ref,omitempty"`
	Type        string             `json:"type,omitempty"`
	Format      string             `json:"format,omitempty"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	OneOf       []*Schema          `json:"oneOf,omitempty"`
	Enum        []any              `json:"enum,omitempty"`
	Default     any                `json:"default,omitempty"`
	Example     any                `json:"example,omitempty"`
}

// Components holds the reusable schemas, responses and security schemes
// that operations reference.
type Components struct {
	Schemas         map[string]*Schema         `json:"schemas,omitempty"`
	Responses       map[string]*Response       `json:"responses,omitempty"`
	SecuritySchemes map[string]*SecurityScheme `json:"securitySchemes,omitempty"`
}

// BearerAuth is the component name of the bearer token security scheme.
const BearerAuth = "bearerAuth"

type SecurityScheme struct {
	Type   string `json:"type"`
	Scheme string `json:"scheme,omitempty"`
}

// RequireBearer is the security requirement for operations behind the
// service secret.
func RequireBearer() []map[string][]string {
	return []map[string][]string{{BearerAuth: {}}}
}

func SchemaRef(name string) *Schema {
	return &Schema{Ref: "#/components/schemas/" + name}
}

func ResponseRef(name string) *Response {
	return &Response{Ref: "#/components/responses/" + name}
}

// RequestBodyJSON documents a JSON body matching the named component schema.
func RequestBodyJSON(schema string, required bool) *RequestBody {
	return &RequestBody{Required: required, Content: jsonContent(schema)}
}

// ResponseJSON documents a JSON response matching the named component schema.
func ResponseJSON(description, schema string) *Response {
	return &Response{Description: description, Content: jsonContent(schema)}
}

func jsonContent(schema string) map[string]*MediaType {
	return map[string]*MediaType{mediaJSON: {Schema: SchemaRef(schema)}}
}
