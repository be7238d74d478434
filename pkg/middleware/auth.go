package middleware

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/facturas/pkg/handlers"
)

var (
	// ErrNotConfigured indicates no service secret is configured.
	ErrNotConfigured = errors.New("missing configuration: service secret")
	// ErrUnauthorized indicates a missing or mismatched bearer token.
	ErrUnauthorized = errors.New("missing or invalid bearer token")
)

// BearerAuth returns middleware that admits only requests whose
// Authorization header carries secret as a bearer token. An empty secret
// rejects every request with 500 service_misconfigured.
func BearerAuth(secret string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				handlers.RespondError(w, logger, http.StatusInternalServerError, "service_misconfigured", ErrNotConfigured)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				handlers.RespondError(w, logger, http.StatusUnauthorized, "unauthorized", ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
