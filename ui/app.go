package ui

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"datascout/app"
	"datascout/internal"
	"datascout/ports"
)

// App is the HTTP application: upload a dataset, read runs back, generate
// the PRD.
type App struct {
	router     *chi.Mux
	supervisor *app.Supervisor
	repo       ports.RunRepository
	maxRows    int
	log        *internal.Logger
}

// Config holds the HTTP application configuration.
type Config struct {
	Port    string
	MaxRows int
}

// NewApp wires the router onto the supervisor and run store.
func NewApp(supervisor *app.Supervisor, repo ports.RunRepository, cfg Config) *App {
	a := &App{
		router:     chi.NewRouter(),
		supervisor: supervisor,
		repo:       repo,
		maxRows:    cfg.MaxRows,
		log:        internal.DefaultLogger,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
	a.router.Use(middleware.Timeout(10 * time.Minute))
}

func (a *App) setupRoutes() {
	a.router.Get("/health", a.handleHealth)

	a.router.Post("/api/datasets/upload", a.handleUpload)

	a.router.Get("/api/runs", a.handleListRuns)
	a.router.Get("/api/runs/{id}", a.handleGetRun)
	a.router.Get("/api/runs/{id}/summary", a.handleRunSummary)

	a.router.Post("/api/runs/{id}/prd", a.handleGeneratePRD)
	a.router.Get("/api/runs/{id}/prd", a.handleDownloadPRD)
	a.router.Get("/api/runs/{id}/prd/html", a.handlePRDHTML)
}

// Handler exposes the router for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run starts the HTTP server on the configured port.
func (a *App) Run(port string) error {
	addr := fmt.Sprintf(":%s", port)
	a.log.Info("HTTP server listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}
