package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storelane/storelane-backend/api/controllers"
	"github.com/storelane/storelane-backend/api/middleware"
	authsvc "github.com/storelane/storelane-backend/internal/auth"
	ordersvc "github.com/storelane/storelane-backend/internal/orders"
	productsvc "github.com/storelane/storelane-backend/internal/products"
	"github.com/storelane/storelane-backend/pkg/config"
	"github.com/storelane/storelane-backend/pkg/enums"
	"github.com/storelane/storelane-backend/pkg/logger"
	"github.com/storelane/storelane-backend/pkg/metrics"
	"github.com/storelane/storelane-backend/pkg/redis"
)

// Dependencies carries everything the router needs to wire handlers.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	Redis       *redis.Client
	Metrics     *metrics.HTTPMetrics
	Registry    *prometheus.Registry
	AuthService authsvc.Service
	Products    productsvc.Service
	Orders      ordersvc.Service
	Readiness   map[string]controllers.Pinger
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	requireAuth := middleware.Auth(cfg.JWT, logg)
	requireAdmin := middleware.RequireRole(enums.UserRoleAdmin, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Readiness))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
			Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(requireAuth).Get("/validate", controllers.AuthValidate(logg))
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(deps.Products, logg))
		r.Get("/categories", controllers.ListProductCategories(deps.Products, logg))
		r.Get("/{productId}", controllers.GetProduct(deps.Products, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Post("/", controllers.CreateProduct(deps.Products, logg))
			r.Put("/{productId}", controllers.UpdateProduct(deps.Products, logg))
			r.Patch("/{productId}/stock", controllers.AdjustProductStock(deps.Products, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(deps.Products, logg))
		})
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/", controllers.ListMyOrders(deps.Orders, logg))
		r.Post("/", controllers.PlaceOrder(deps.Orders, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/admin/all", controllers.ListAllOrders(deps.Orders, logg))
		})

		r.Get("/{orderId}", controllers.GetOrder(deps.Orders, logg))
		r.Post("/{orderId}/cancel", controllers.CancelOrder(deps.Orders, logg))
		r.With(requireAdmin).Patch("/{orderId}/status", controllers.UpdateOrderStatus(deps.Orders, logg))
	})

	return r
}
