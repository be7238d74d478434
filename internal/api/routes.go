package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/facturas/internal/config"
	"github.com/JaimeStill/facturas/internal/extraction"
	"github.com/JaimeStill/facturas/pkg/middleware"
	"github.com/JaimeStill/facturas/pkg/openapi"
	"github.com/JaimeStill/facturas/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	extractions := extraction.NewHandler(domain.Extraction, runtime.Logger).Routes()
	extractions.Middleware = append(
		extractions.Middleware,
		middleware.BearerAuth(cfg.API.ServiceSecret, runtime.Logger),
	)

	spec, err := buildSpec(cfg, extractions)
	if err != nil {
		return err
	}

	routes.Register(
		mux,
		extractions,
		routes.Group{
			Routes: []routes.Route{
				{Method: "GET", Pattern: "/openapi.json", Handler: openapi.ServeSpec(spec)},
			},
		},
	)
	return nil
}

func buildSpec(cfg *config.Config, groups ...routes.Group) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	spec.Components.AddSchemas(extraction.Schemas())

	if err := routes.Document(spec, "", groups...); err != nil {
		return nil, fmt.Errorf("openapi document: %w", err)
	}
	return openapi.MarshalJSON(spec)
}
