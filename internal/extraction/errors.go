package extraction

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/facturas/pkg/docai"
	"github.com/JaimeStill/facturas/pkg/gauth"
	"github.com/JaimeStill/facturas/pkg/middleware"
	"github.com/JaimeStill/facturas/pkg/openai"
	"github.com/JaimeStill/facturas/pkg/storage"
)

// ErrInvalidRequest indicates a malformed or incomplete extraction request.
var ErrInvalidRequest = errors.New("invalid request")

// Error codes carried in failure envelopes.
const (
	CodeInvalidRequest = "invalid_request"
	CodeMisconfigured  = "service_misconfigured"
	CodeFailed         = "extraction_failed"
)

var configErrors = []error{
	docai.ErrNotConfigured,
	openai.ErrNotConfigured,
	gauth.ErrNotConfigured,
	storage.ErrNotConfigured,
	middleware.ErrNotConfigured,
}

// IsConfigError reports whether err stems from a missing configuration value.
func IsConfigError(err error) bool {
	for _, target := range configErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// MapHTTPStatus maps extraction errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	if IsConfigError(err) {
		return http.StatusInternalServerError
	}
	return http.StatusBadGateway
}

// ErrorCode maps extraction errors to failure envelope codes.
func ErrorCode(err error) string {
	switch MapHTTPStatus(err) {
	case http.StatusBadRequest:
		return CodeInvalidRequest
	case http.StatusInternalServerError:
		return CodeMisconfigured
	default:
		return CodeFailed
	}
}
