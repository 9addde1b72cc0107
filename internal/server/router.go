package server

import (
	"context"
	"net/http"

	"github.com/cloo-solutions/greenplate/internal/api"
	"github.com/cloo-solutions/greenplate/internal/api/handlers"
	"github.com/cloo-solutions/greenplate/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	DiscoveryHandler   *handlers.DiscoveryHandler
	RecipeHandler      *handlers.RecipeHandler
	InteractionHandler *handlers.InteractionHandler
	CookbookHandler    *handlers.CookbookHandler

	// ReadyCheck backs /ready; nil means always ready.
	ReadyCheck func(ctx context.Context) error
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 64 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.UserIdentity)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if cfg.ReadyCheck != nil {
			if err := cfg.ReadyCheck(r.Context()); err != nil {
				api.Error(w, http.StatusServiceUnavailable, "not ready")
				return
			}
		}
		api.Success(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/search", cfg.DiscoveryHandler.Search)
	r.Post("/search/feedback", cfg.DiscoveryHandler.SearchFeedback)
	r.Get("/emissions/histogram", cfg.RecipeHandler.Histogram)

	r.Route("/recipes/{slug}", func(r chi.Router) {
		r.Get("/similar", cfg.DiscoveryHandler.Similar)
		r.Get("/emissions", cfg.RecipeHandler.Emissions)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)

			r.Get("/bookmark", cfg.InteractionHandler.GetBookmark)
			r.Put("/bookmark", cfg.InteractionHandler.AddBookmark)
			r.Delete("/bookmark", cfg.InteractionHandler.RemoveBookmark)
			r.Post("/bookmark/toggle", cfg.InteractionHandler.ToggleBookmark)
			r.Get("/rating", cfg.InteractionHandler.GetRating)
			r.Put("/rating", cfg.InteractionHandler.PutRating)
		})
	})

	r.Route("/cookbook", func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.Get("/", cfg.CookbookHandler.Page)
		r.Get("/favorites", cfg.CookbookHandler.Favorites)
		r.Get("/categories", cfg.CookbookHandler.Categories)
	})

	return r
}
