// Package http provides the HTTP delivery layer for the link shortener service.
// This package contains the HTTP handlers, the session middleware and the
// request and response types of the public API.
package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/vadimbarashkov/link-shortener/pkg/middleware/ratelimit"
	"github.com/vadimbarashkov/link-shortener/pkg/middleware/recoverer"
)

// Config holds the settings of the HTTP surface.
type Config struct {
	APIRoot        string   // APIRoot is the path prefix all routes are mounted under.
	BaseURL        string   // BaseURL is the public origin short links are built from.
	AppURL         string   // AppURL is the client application origin used for not-found redirects.
	AllowedOrigins []string // AllowedOrigins lists the CORS origins.
	Auth           AuthConfig
	CreateLimit    ratelimit.Config // CreateLimit is the per-client budget of POST /urls.
	DefaultLimit   ratelimit.Config // DefaultLimit is the per-client budget of the other /urls routes.
}

var defaultAllowedOrigins = []string{"https://*", "http://*"}

// NewRouter initializes and returns a new Chi router configured with middleware and routes for the link shortener API.
func NewRouter(logger *httplog.Logger, useCase linkUseCase, cfg Config) *chi.Mux {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = defaultAllowedOrigins
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"POST", "GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer.New(logger.Logger))
	r.Use(identify(cfg.Auth, logger.Logger))

	r.Get("/ping", handlePing)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(joinPath(cfg.APIRoot, "/docs/swagger.yml")),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.yml")
	})

	h := newLinkHandler(useCase, cfg.BaseURL, cfg.AppURL)

	r.Route("/urls", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))

		r.With(ratelimit.New(cfg.CreateLimit, logger.Logger)).Post("/", h.createLink)

		r.Group(func(r chi.Router) {
			r.Use(ratelimit.New(cfg.DefaultLimit, logger.Logger))

			r.Get("/", h.listLinks)
			r.Put("/{id}", h.updateLink)
			r.Delete("/{id}", h.deleteLink)
		})
	})

	r.Get("/{alias}", h.redirect)

	if root := strings.TrimRight(cfg.APIRoot, "/"); root != "" {
		mux := chi.NewRouter()
		mux.Mount(root, r)
		return mux
	}

	return r
}

func joinPath(root, path string) string {
	return strings.TrimRight(root, "/") + path
}
