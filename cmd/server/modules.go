package main

import (
	"net/http"

	"github.com/JaimeStill/facturas/internal/api"
	"github.com/JaimeStill/facturas/internal/config"
	"github.com/JaimeStill/facturas/internal/infrastructure"
	"github.com/JaimeStill/facturas/pkg/handlers"
	"github.com/JaimeStill/facturas/pkg/lifecycle"
	"github.com/JaimeStill/facturas/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API: apiModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

type status struct {
	Status string `json:"status"`
}

func buildRouter(ready lifecycle.ReadinessChecker) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, status{Status: "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !ready.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, status{Status: "not ready"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, status{Status: "ready"})
	})

	return router
}
