package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/rewards-onboarding/internal/config"
	"github.com/xavierca1/rewards-onboarding/internal/infra/http/handlers"
	"github.com/xavierca1/rewards-onboarding/internal/infra/http/middleware"
)

type server struct {
	cfg    config.Config
	logger logrus.FieldLogger

	health     *handlers.HealthHandler
	initDB     *handlers.InitDBHandler
	places     *handlers.PlacesHandler
	auth       *handlers.AuthHandler
	business   *handlers.BusinessHandler
	checkout   *handlers.CheckoutHandler
	onboarding *handlers.OnboardingHandler
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	limiter := middleware.NewRateLimiter(float64(s.cfg.RateLimitRPS), s.cfg.RateLimitBurst)

	r.Get("/health", s.health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/init-db", s.initDB.Handle)

		r.With(limiter.Handler).Get("/places/search", s.places.Search)

		r.Route("/auth", func(r chi.Router) {
			r.Use(limiter.Handler)
			r.Post("/register", s.auth.Register)
			r.Post("/login", s.auth.Login)
		})

		r.Route("/business", func(r chi.Router) {
			r.Post("/submit", s.business.Submit)
			r.Post("/intake", s.business.Intake)
			r.Get("/{id}/status", s.business.Status)
		})

		r.Post("/stripe/create-subscription", s.checkout.Handle)
	})

	r.Route("/onboarding", func(r chi.Router) {
		r.Use(middleware.Visitor(s.cfg.StepStateTTL, s.cfg.IsProduction()))

		r.Get("/search", s.onboarding.Search)
		r.With(limiter.Handler).Post("/search", s.onboarding.SubmitSearch)
		r.Get("/verify", s.onboarding.Verify)
		r.Post("/verify/confirm", s.onboarding.ConfirmCandidate)
		r.Post("/verify/reject", s.onboarding.RejectCandidate)
		r.Get("/create-account", s.onboarding.CreateAccount)
		r.Post("/create-account", s.onboarding.SubmitAccount)
		r.Get("/terms", s.onboarding.Terms)
		r.Post("/terms", s.onboarding.AcceptTerms)
		r.Post("/upgrade", s.onboarding.Upgrade)
	})

	return r
}
