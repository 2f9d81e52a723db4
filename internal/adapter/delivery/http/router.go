// Package http provides the HTTP delivery layer for the link registry.
// This package contains the HTTP handlers and related types used for processing
// incoming requests, validating input, and formatting responses.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/vadimbarashkov/brevly/docs"
	"github.com/vadimbarashkov/brevly/internal/metrics"
	"github.com/vadimbarashkov/brevly/web"
)

// RouterOptions groups the dependencies NewRouter wires into the routes.
type RouterOptions struct {
	Logger         *httplog.Logger
	Metrics        *metrics.Metrics
	LinkUseCase    linkUseCase
	ExportUseCase  exportUseCase
	AllowedOrigins []string
}

// NewRouter initializes and returns a new Chi router configured with middleware and routes for the link API,
// the metrics endpoint, the API docs and the client page.
func NewRouter(opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"POST", "GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(opts.Metrics.Middleware)

	r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(docs.Swagger)
	})

	h := newLinkHandler(opts.LinkUseCase, opts.ExportUseCase, opts.Metrics, newValidate())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handleHealth)

		r.Route("/links", func(r chi.Router) {
			r.Post("/", h.createLink)
			r.Get("/", h.listLinks)
			r.Get("/export", h.exportLinks)
			r.Get("/{shortUrl}", h.getLinksByAlias)
			r.Get("/{shortUrl}/redirect", h.resolveLink)
			r.Delete("/{id}", h.deleteLink)
		})
	})

	r.Handle("/*", http.FileServer(http.FS(web.FS)))

	// Shared short links; static routes above take precedence over the alias.
	r.Get("/{shortUrl}", h.visitLink)

	return r
}
