// Package ui serves the upload form and results pages over HTTP. It is a
// thin shell around the pipeline orchestrator: one POST runs one
// analysis, and everything a run produced is served back from its output
// directory.
package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/semaphore"

	"csvscope/internal"
	"csvscope/internal/config"
	"csvscope/internal/pipeline"
	"csvscope/ports"
)

//go:embed templates/*
var embeddedFiles embed.FS

// maxConcurrentRuns caps simultaneous analyses; plot rendering is the
// expensive stage and runs unbounded otherwise.
const maxConcurrentRuns = 4

// App represents the web application
type App struct {
	router       *chi.Mux
	templates    *template.Template
	config       *config.Config
	orchestrator *pipeline.Orchestrator
	ledger       ports.RunLedger
	logger       *internal.Logger
	runSlots     *semaphore.Weighted
}

// NewApp creates the web application. The ledger may be nil, which
// disables the recent-runs listing on the index page.
func NewApp(cfg *config.Config, orchestrator *pipeline.Orchestrator, ledger ports.RunLedger, logger *internal.Logger) (*App, error) {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}

	templates, err := template.New("").ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		router:       chi.NewRouter(),
		templates:    templates,
		config:       cfg,
		orchestrator: orchestrator,
		ledger:       ledger,
		logger:       logger,
		runSlots:     semaphore.NewWeighted(maxConcurrentRuns),
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Post("/upload", a.handleUpload)
	a.router.Get("/downloads/*", a.handleDownload)
}

// Start starts the HTTP server
func (a *App) Start() error {
	addr := ":" + a.config.Server.Port
	a.logger.Info("starting server on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Handler exposes the router for tests
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		a.logger.Error("template %s failed: %v", templateName, err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
