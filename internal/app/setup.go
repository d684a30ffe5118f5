// Package app contains the application setup for the catalog service.
package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prasit/catalog_service/internal/config"
	"github.com/prasit/catalog_service/internal/service"
	"github.com/prasit/catalog_service/internal/storage"
	"github.com/prasit/catalog_service/internal/store"
	"github.com/prasit/catalog_service/internal/transport/rest"
	"github.com/prasit/catalog_service/pkg/server"
)

type Dependencies struct {
	CatalogService service.CatalogService
	Images         storage.ImageStore
	Logger         *slog.Logger
}

// SetupDependencies builds the service graph: disk image store, PostgreSQL
// product store and the catalog service on top of both.
func SetupDependencies(dbPool *pgxpool.Pool, mediaDir string, logger *slog.Logger) (*Dependencies, error) {
	images, err := storage.NewDiskStore(mediaDir)
	if err != nil {
		return nil, fmt.Errorf("failed to set up image store: %w", err)
	}
	cService := service.NewService(store.NewPgStore(dbPool), images)

	return &Dependencies{
		CatalogService: cService,
		Images:         images,
		Logger:         logger,
	}, nil
}

// SetupHttpHandler initializes the HTTP router and routes for the catalog service.
// Used by tests to exercise the full HTTP surface without a listener.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the catalog service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	catalogHandler := rest.NewHandler(deps.CatalogService, deps.Images, deps.Logger)
	catalogHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the catalog service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
