package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andymabb/Petra/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health
//	GET    /api/v1/day                 ?testDate=YYYY-MM-DD
//	GET    /api/v1/day/{date}
//	GET    /api/v1/blocks              ?testDate=&showAll&visible=true
//	GET    /api/v1/blocks/{slug}
//	POST   /api/v1/blocks              (API key)
//	DELETE /api/v1/blocks/{slug}       (API key)
//	GET    /api/v1/calendar/{year}
//	GET    /*                          site pages, seasonal content resolved
func SetupRoutes(handlers *Handlers, site http.Handler, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/day", handlers.GetDay)
		r.Get("/day/{date}", handlers.GetDayForDate)
		r.Get("/blocks", handlers.ListBlocks)
		r.Get("/blocks/{slug}", handlers.GetBlock)
		r.Get("/calendar/{year}", handlers.GetCalendar)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg, logger))
			r.Post("/blocks", handlers.UpsertBlock)
			r.Delete("/blocks/{slug}", handlers.DeleteBlock)
		})
	})

	if site != nil {
		r.Get("/*", site.ServeHTTP)
		r.Head("/*", site.ServeHTTP)
	}

	return r
}
