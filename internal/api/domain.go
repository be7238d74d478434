package api

import (
	"fmt"

	"github.com/JaimeStill/facturas/internal/config"
	"github.com/JaimeStill/facturas/internal/extraction"
	"github.com/JaimeStill/facturas/internal/files"
	"github.com/JaimeStill/facturas/pkg/docai"
	"github.com/JaimeStill/facturas/pkg/drive"
	"github.com/JaimeStill/facturas/pkg/openai"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Files      files.System
	Extraction extraction.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	filesSystem := files.New(
		runtime.Storage,
		drive.New(&cfg.Drive, runtime.Tokens, runtime.Logger),
		runtime.MaxDownloadBytes,
		runtime.Logger,
	)

	fallback, err := extraction.NewFallback(
		openai.New(&cfg.Fallback, runtime.Logger),
		runtime.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("fallback init failed: %w", err)
	}

	pipeline := extraction.NewPipeline(
		filesSystem,
		docai.New(&cfg.DocAI, runtime.Tokens, runtime.Logger),
		fallback,
		runtime.Logger,
	)

	return &Domain{
		Files:      filesSystem,
		Extraction: pipeline,
	}, nil
}
