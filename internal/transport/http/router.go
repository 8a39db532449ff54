package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-shop-api/internal/application/auth"
	"github.com/go-shop-api/internal/application/catalog"
	"github.com/go-shop-api/internal/application/order"
	"github.com/go-shop-api/internal/application/user"
	"github.com/go-shop-api/internal/application/verification"
	"github.com/go-shop-api/internal/config"
	jwtinfra "github.com/go-shop-api/internal/infrastructure/jwt"
	s3infra "github.com/go-shop-api/internal/infrastructure/s3"
	"github.com/go-shop-api/internal/infrastructure/smtp"
	"github.com/go-shop-api/internal/transport/http/handler"
	appmiddleware "github.com/go-shop-api/internal/transport/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         UserRepository
	VerificationRepo VerificationRepository
	CategoryRepo     CategoryRepository
	ProductRepo      ProductRepository
	OrderRepo        OrderRepository
	// S3Store is nil when object storage is unconfigured.
	S3Store     ObjectStore
	Mailer      smtp.Mailer
	JWTProvider *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	tokens := verification.NewManager(deps.VerificationRepo, time.Duration(cfg.VerificationTTLHours)*time.Hour)

	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:     deps.UserRepo,
		Tokens:       tokens,
		Signer:       deps.JWTProvider,
		Mailer:       deps.Mailer,
		EmailEnabled: cfg.EmailEnabled(),
	})
	userSvc := user.NewService(deps.UserRepo)
	catalogDeps := catalog.ServiceDeps{
		CategoryRepo: deps.CategoryRepo,
		ProductRepo:  deps.ProductRepo,
		ContentType:  s3infra.DetectContentType,
	}
	if deps.S3Store != nil {
		catalogDeps.Media = deps.S3Store
	}
	catalogSvc := catalog.NewService(catalogDeps)
	orderSvc := order.NewService(deps.OrderRepo, deps.ProductRepo)

	authMw := appmiddleware.Auth(deps.JWTProvider, deps.UserRepo)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	userH := handler.NewUserHandler(userSvc)
	categoryH := handler.NewCategoryHandler(catalogSvc)
	productH := handler.NewProductHandler(catalogSvc)
	orderH := handler.NewOrderHandler(orderSvc)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.Get("/test", healthH.Test)

		r.With(sensitiveRL.Limit).Post("/auth/register", authH.Register)
		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)
		r.Post("/auth/verify-email", authH.VerifyEmail)
		r.With(sensitiveRL.Limit).Post("/auth/resend-verification", authH.ResendVerification)

		r.Get("/categories", categoryH.List)
		r.Get("/categories/slug/{slug}", categoryH.GetBySlug)
		r.Get("/categories/{id}", categoryH.Get)
		r.Get("/products", productH.List)
		r.Get("/products/featured", productH.Featured)
		r.Get("/products/slug/{slug}", productH.GetBySlug)
		r.Get("/products/{id}", productH.Get)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/auth/refresh", authH.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireActive)

				r.Get("/users/me", userH.Me)
				r.Put("/users/me", userH.UpdateMe)

				r.Post("/orders", orderH.Create)
				r.Get("/orders", orderH.ListMine)
				r.Get("/orders/{id}", orderH.Get)

				// Admin-only routes
				r.Group(func(r chi.Router) {
					r.Use(appmiddleware.RequireAdmin)

					r.Get("/users", userH.List)

					r.Post("/categories", categoryH.Create)
					r.Put("/categories/{id}", categoryH.Update)
					r.Delete("/categories/{id}", categoryH.Delete)

					r.Post("/products", productH.Create)
					r.Put("/products/{id}", productH.Update)
					r.Delete("/products/{id}", productH.Delete)
					r.Post("/products/{id}/images", productH.UploadImage)

					r.Get("/admin/orders", orderH.ListAll)
					r.Put("/admin/orders/{id}/status", orderH.UpdateStatus)
				})
			})
		})
	})

	return r
}
