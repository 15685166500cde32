package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appMiddleware "github.com/geulda/go-tour-recommendations/app/middleware"
	"github.com/geulda/go-tour-recommendations/internal/api/recommendation"
	"github.com/geulda/go-tour-recommendations/internal/api/vectorstore"
)

// Config contains dependencies needed for the router setup.
type Config struct {
	RecommendationHandler *recommendation.Handler
	VectorStoreHandler    *vectorstore.Handler
	RateLimiter           *appMiddleware.RateLimiter
}

// SetupRouter initializes the main application router. Server-wide middleware
// (logger, requestID, recoverer) are applied before mounting this router in
// main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.RateLimiter != nil {
				r.Use(cfg.RateLimiter.Handler)
			}
			r.Use(appMiddleware.OptionalIdentity)

			r.Post("/recommendations", cfg.RecommendationHandler.Recommend)
			r.Get("/recommendations/sessions/{sessionID}", cfg.RecommendationHandler.GetSession)
		})

		// Admin surface: requires a valid token.
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.Authenticate)

			r.Post("/vector-index/rebuild", cfg.VectorStoreHandler.Rebuild)
			r.Get("/vector-index/status", cfg.VectorStoreHandler.Status)
		})
	})

	return r
}
