package extraction

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/JaimeStill/facturas/pkg/handlers"
	"github.com/JaimeStill/facturas/pkg/middleware"
	"github.com/JaimeStill/facturas/pkg/routes"
)

// ResponseMeta accompanies every successful extraction response.
type ResponseMeta struct {
	RequestID  string `json:"request_id"`
	DurationMS int64  `json:"duration_ms"`
	Meta
}

// Response is the body of a successful extraction.
type Response struct {
	Success    bool         `json:"success"`
	Extraction *Extraction  `json:"extraction"`
	Quality    Verdict      `json:"quality"`
	Meta       ResponseMeta `json:"meta"`
}

// Handler provides the HTTP endpoint for extractions.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "extractions"),
	}
}

// Routes returns the route group for extraction endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/extractions",
		Tags:   []string{"Extractions"},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Extract, OpenAPI: extractOperation()},
		},
	}
}

// Extract validates the request body and runs the pipeline.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, fmt.Errorf("%w: decode body: %w", ErrInvalidRequest, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(w, err)
		return
	}

	result, err := h.sys.Run(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Response{
		Success:    true,
		Extraction: result.Extraction,
		Quality:    result.Quality,
		Meta: ResponseMeta{
			RequestID:  middleware.RequestIDFrom(r.Context()),
			DurationMS: time.Since(start).Milliseconds(),
			Meta:       result.Meta,
		},
	})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	handlers.RespondError(w, h.logger, MapHTTPStatus(err), ErrorCode(err), err)
}
