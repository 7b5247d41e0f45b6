package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/middleware"
	"server/internal/session"
)

// RouterConfig carries the router's cross-cutting settings.
type RouterConfig struct {
	JWTSecret       string
	Sessions        session.Store
	RateLimitPerMin int
	AllowedOrigins  []string
	CountryLookup   middleware.CountryLookup
}

func NewRouter(app *handlers.App, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		chimw.Recoverer,
		middleware.RequestID,
		middleware.Logger(app.Logger),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
		middleware.I18N("en", cfg.CountryLookup),
	)

	// Public surface.
	r.Get("/v1/healthz", app.Health)
	r.Post("/v1/auth/register", app.Register)
	r.Post("/v1/auth/login", app.Login)
	r.Get("/v1/f/{id}", app.PublicFundraiser)
	r.Post("/v1/contact", app.Contact)

	// Session-gated surface.
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(cfg.JWTSecret, cfg.Sessions))
		r.Post("/v1/auth/logout", app.Logout)
		r.Get("/v1/me", app.Me)
		r.Route("/v1/fundraisers", func(r chi.Router) {
			r.Post("/", app.FundraisersCreate)
			r.Get("/{id}", app.FundraisersGet)
			r.Delete("/{id}", app.FundraisersDelete)
			r.Get("/{id}/qr", app.FundraisersQR)
			r.Post("/{id}/contributions", app.ContributionsRecord)
			r.Get("/{id}/contributions", app.ContributionsList)
			r.Get("/{id}/contributions/export", app.ContributionsExport)
		})
	})

	return r
}
