package http

import (
	"context"
	"net/http"
	"time"

	"github.com/No0oD/Stajh2Test/internal/application/account"
	"github.com/No0oD/Stajh2Test/internal/application/verification"
	"github.com/No0oD/Stajh2Test/internal/config"
	"github.com/No0oD/Stajh2Test/internal/transport/http/handler"
	appmiddleware "github.com/No0oD/Stajh2Test/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         UserRepository
	VerificationRepo VerificationRepository
	Mailer           Mailer
	Now              func() time.Time // defaults to time.Now
}

// NewRouter builds and returns the application router. ctx bounds the
// lifetime of the rate limiter's background cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	sensitiveRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, cfg.TrustProxy)

	verificationSvc := verification.NewService(verification.ServiceDeps{
		Store:    deps.VerificationRepo,
		Identity: account.NewIdentityLookup(deps.UserRepo),
		Notifier: deps.Mailer,
		Now:      deps.Now,
		CodeTTL:  cfg.CodeTTL,
	})
	accountSvc := account.NewService(account.ServiceDeps{
		UserRepo:         deps.UserRepo,
		VerificationRepo: deps.VerificationRepo,
		Now:              deps.Now,
	})

	healthH := handler.NewHealthHandler()
	verificationH := handler.NewVerificationHandler(verificationSvc)
	accountH := handler.NewAccountHandler(accountSvc)

	r.Get("/", healthH.Root)
	r.Get("/health-check/{action}", healthH.Ping)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(sensitiveRL.Limit)

		r.Post("/send-verification-email", verificationH.Send)
		r.Post("/verify-code", verificationH.Verify)
		r.Post("/reset-password", accountH.ResetPassword)
		r.Post("/users", accountH.Register)
		r.Post("/login", accountH.Login)
	})

	return r
}
