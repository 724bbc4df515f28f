package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-shop-api/internal/config"
	"go-shop-api/internal/handler"
	"go-shop-api/internal/metrics"
	"go-shop-api/internal/middleware"
	"go-shop-api/internal/permission"
	"go-shop-api/internal/token"
	"go-shop-api/internal/websocket"
)

func New(
	cfg *config.Config,
	m *metrics.Metrics,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	productHandler *handler.ProductHandler,
	auditHandler *handler.AuditHandler,
	healthHandler *handler.HealthHandler,
	docsHandler *handler.DocsHandler,
	hub *websocket.Hub,
) http.Handler {
	r := chi.NewRouter()
	globalLimiter := middleware.NewRateLimiter(cfg.RateLimitRPM)
	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.RealIP(cfg.TrustedProxies))
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics(m))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(globalLimiter.Handler)

	r.Get("/api/health", healthHandler.Check)
	if m != nil {
		r.Handle("/metrics", m.Handler())
	}
	r.Get("/openapi.yaml", docsHandler.OpenAPI)
	r.Get("/swagger", docsHandler.SwaggerUI)

	authenticated := authMiddleware.Authenticate(token.Access)
	require := authMiddleware.Require

	r.Route("/api/v1", func(v1 chi.Router) {
		// Hijacked connections cannot sit behind the timeout handler.
		if hub != nil {
			v1.With(authenticated, require(permission.ViewAudit)).Get("/events/ws", hub.ServeWS)
		}

		v1.Group(func(api chi.Router) {
			api.Use(middleware.Timeout(cfg.RequestTimeout))

			api.Route("/auth", func(auth chi.Router) {
				auth.With(authLimiter.Handler).Post("/login", authHandler.Login)
				auth.Post("/register", authHandler.Register)
				auth.With(authLimiter.Handler).Post("/forgotPassword", authHandler.ForgotPassword)
				auth.With(authMiddleware.Authenticate(token.Refresh)).Post("/refreshToken", authHandler.RefreshToken)
				auth.With(authenticated).Post("/resetPassword", authHandler.ResetPassword)
				auth.With(authenticated).Put("/changePassword", authHandler.ChangePassword)
				auth.With(authenticated, require(permission.SuspendUser)).Put("/suspendUser/{userId}", authHandler.SuspendUser)
				auth.With(authenticated).Post("/logout", authHandler.Logout)
				auth.With(authenticated).Get("/me", authHandler.Me)
			})

			api.Route("/products", func(products chi.Router) {
				products.Use(authenticated)
				products.With(require(permission.ViewProduct)).Get("/", productHandler.List)
				products.With(require(permission.CreateProduct)).Post("/", productHandler.Create)
				products.With(require(permission.ViewProduct)).Get("/{id}", productHandler.Get)
				products.With(require(permission.UpdateProduct)).Put("/{id}", productHandler.Update)
				products.With(require(permission.DeleteProduct)).Delete("/{id}", productHandler.Delete)
			})

			api.Route("/users", func(users chi.Router) {
				users.Use(authenticated, require(permission.ViewUser))
				users.Get("/", userHandler.List)
				users.Get("/{id}", userHandler.Get)
			})

			api.With(authenticated, require(permission.ViewAudit)).Get("/audit", auditHandler.List)
		})
	})

	return r
}
