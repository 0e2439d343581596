package httpapi

import (
	"net/http"

	"banksy/internal/http/handlers"
	"banksy/internal/infra"
	appmw "banksy/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func NewRouter(cfg *infra.Config, logger zerolog.Logger, app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		appmw.RequestID,
		middleware.RealIP,
		appmw.Logger(logger),
		middleware.Recoverer,
		appmw.CORS(cfg.CORSAllowedOrigins),
	)

	r.Get("/", app.Index)
	r.Get("/v1/healthz", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.RequestSize(cfg.MaxBodyBytes)).Post("/generate", app.Generate)
	})

	return r
}
