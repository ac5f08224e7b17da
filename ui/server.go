// Package ui exposes the analysis services over HTTP.
package ui

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"goanova/app"
	"goanova/internal"
	"goanova/ports"
)

// App represents the HTTP application
type App struct {
	router *chi.Mux
	anova  *app.AnovaService
	sweep  *app.SweepService
	reader ports.TableReader
	logger *internal.Logger
}

// Config holds HTTP application configuration
type Config struct {
	Port string
}

// NewApp creates the HTTP application around the analysis services. The
// reader supplies the data frame analyzed by the API endpoints.
func NewApp(anovaService *app.AnovaService, sweepService *app.SweepService, reader ports.TableReader) *App {
	a := &App{
		router: chi.NewRouter(),
		anova:  anovaService,
		sweep:  sweepService,
		reader: reader,
		logger: internal.NewDefaultLogger("UI"),
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/health", a.handleHealth)

	a.router.Post("/api/anova", a.handleAnalyze)
	a.router.Post("/api/sweep", a.handleSweep)
	a.router.Get("/api/runs", a.handleListRuns)
	a.router.Get("/api/runs/{id}", a.handleGetRun)
	a.router.Get("/api/runs/{id}/report", a.handleRunReport)
}

// Start starts the HTTP server
func (a *App) Start(cfg Config) error {
	addr := fmt.Sprintf(":%s", cfg.Port)
	a.logger.Info("starting server on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Router exposes the configured router, mainly for tests.
func (a *App) Router() http.Handler {
	return a.router
}
