// internal/handlers/router.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"toeic_flashcards/internal/config"
	"toeic_flashcards/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// NewRouter はミドルウェアとAPIルートを組み立てます
func NewRouter(cfg *config.Config, logger *slog.Logger, flashcardHandler *FlashcardHandler, reviewHandler *ReviewHandler, healthHandler *HealthHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))
	if cfg.Log.Detail {
		r.Use(middleware.DetailLoggingMiddleware)
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
		Debug:            false,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	var reviewLimiter func(http.Handler) http.Handler
	if cfg.RateLimit.RequestsPerSecond > 0 {
		reviewLimiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst).Middleware
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.UserContextMiddleware)

			r.Route("/flashcards", func(r chi.Router) {
				r.Post("/", flashcardHandler.PostFlashcard)
				r.Get("/", flashcardHandler.GetFlashcards)
				r.Get("/due", reviewHandler.GetDueFlashcards)
				r.Get("/{flashcard_id}", flashcardHandler.GetFlashcard)
				r.Put("/{flashcard_id}", flashcardHandler.PutFlashcard)
				r.Delete("/{flashcard_id}", flashcardHandler.DeleteFlashcard)

				if reviewLimiter != nil {
					r.With(reviewLimiter).Post("/{flashcard_id}/review", reviewHandler.SubmitReview)
				} else {
					r.Post("/{flashcard_id}/review", reviewHandler.SubmitReview)
				}
			})
		})
	})

	r.Get("/health", healthHandler.Health)

	return r
}
