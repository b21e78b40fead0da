// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/scriptmark-labs/scriptmark/internal/config"
	"github.com/scriptmark-labs/scriptmark/internal/infrastructure"
	"github.com/scriptmark-labs/scriptmark/pkg/middleware"
	"github.com/scriptmark-labs/scriptmark/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain, err := NewDomain(runtime)
	if err != nil {
		return nil, fmt.Errorf("domain init failed: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	if cfg.API.Auth.Enabled {
		auth, err := middleware.Auth(infra.Lifecycle.Context(), &cfg.API.Auth)
		if err != nil {
			return nil, fmt.Errorf("auth init failed: %w", err)
		}
		m.Use(auth)
	}

	return m, nil
}
