package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

func NewRouter(app *handlers.App, logger zerolog.Logger, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.CORS(allowedOrigins),
		middleware.Logger(logger),
	)

	r.Get("/", app.Root)
	r.Get("/healthz", app.Health)
	r.Get("/productos-shopify", app.ShopifyProducts)
	r.Post("/experiencia-premium", app.PremiumExperience)

	return r
}
