package api

import (
	"net/http"

	"github.com/scriptmark-labs/scriptmark/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) {
	storage := newStorageHandler(
		runtime.Storage,
		runtime.Logger,
		runtime.Config.Storage.MaxListSize,
		runtime.Config.API.MaxUploadSizeBytes(),
	)

	routes.Register(
		mux,
		domain.Executions.Handler().Routes(),
		storage.routes(),
	)
}
