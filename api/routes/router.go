package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Stylish87l/RetailFlow/api/controllers"
	"github.com/Stylish87l/RetailFlow/api/middleware"
	authsvc "github.com/Stylish87l/RetailFlow/internal/auth"
	checkoutsvc "github.com/Stylish87l/RetailFlow/internal/checkout"
	handoversvc "github.com/Stylish87l/RetailFlow/internal/handovers"
	productsvc "github.com/Stylish87l/RetailFlow/internal/products"
	reportsvc "github.com/Stylish87l/RetailFlow/internal/reports"
	salereturn "github.com/Stylish87l/RetailFlow/internal/returns"
	txnsvc "github.com/Stylish87l/RetailFlow/internal/transactions"
	usersvc "github.com/Stylish87l/RetailFlow/internal/users"
	"github.com/Stylish87l/RetailFlow/pkg/config"
	"github.com/Stylish87l/RetailFlow/pkg/enums"
	"github.com/Stylish87l/RetailFlow/pkg/logger"
	"github.com/Stylish87l/RetailFlow/pkg/metrics"
	pkgredis "github.com/Stylish87l/RetailFlow/pkg/redis"
)

// Services bundles everything the router mounts.
type Services struct {
	Auth         authsvc.Service
	Users        usersvc.Service
	Products     productsvc.Service
	Checkout     checkoutsvc.Service
	Transactions txnsvc.Service
	Returns      salereturn.Service
	Handovers    handoversvc.Service
	Reports      reportsvc.Service
}

// NewRouter mounts the API surface: health probes, metrics, login, and the
// authenticated tenant routes.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *pkgredis.Client,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	readiness map[string]controllers.Pinger,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)

	// A typed nil in an interface value would dodge the middleware nil
	// checks, so only wire the redis-backed middleware when redis is up.
	var idemStore pkgredis.IdempotencyStore
	loginLimiter := func(next http.Handler) http.Handler { return next }
	if redisClient != nil {
		idemStore = redisClient
		loginLimiter = middleware.AuthRateLimit(loginPolicy, redisClient, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.With(loginLimiter).Post("/auth/login", controllers.Login(svcs.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, svcs.Auth, logg))
			r.Use(middleware.Idempotency(idemStore, logg))

			r.Get("/auth/me", controllers.Me(svcs.Auth, logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ListProducts(svcs.Products, logg))
				r.Get("/barcode/{barcode}", controllers.ProductByBarcode(svcs.Products, logg))

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))
					r.Post("/", controllers.CreateProduct(svcs.Products, logg))
					r.Put("/{id}", controllers.UpdateProduct(svcs.Products, logg))
					r.Delete("/{id}", controllers.DeleteProduct(svcs.Products, logg))
				})
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", controllers.ListTransactions(svcs.Transactions, logg))
				r.Get("/{id}", controllers.GetTransaction(svcs.Transactions, logg))
				r.With(middleware.RequireRole(logg, enums.UserRoleAdmin, enums.UserRoleCashier)).
					Post("/", controllers.CreateTransaction(svcs.Checkout, logg))
			})

			r.Route("/returns", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin, enums.UserRoleCashier))
				r.Get("/", controllers.ListReturns(svcs.Returns, logg))
				r.Post("/", controllers.CreateReturn(svcs.Returns, logg))
			})

			r.Route("/handovers", func(r chi.Router) {
				r.Get("/", controllers.ListHandovers(svcs.Handovers, logg))
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin, enums.UserRoleCashier))
					r.Post("/", controllers.CreateHandover(svcs.Handovers, logg))
					r.Put("/{id}", controllers.UpdateHandover(svcs.Handovers, logg))
				})
			})

			r.Get("/dashboard/kpis", controllers.DashboardKPIs(svcs.Reports, logg))
			r.Get("/reports/sales", controllers.SalesReport(svcs.Reports, logg))

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))
				r.Get("/", controllers.ListUsers(svcs.Users, logg))
				r.Post("/", controllers.CreateUser(svcs.Users, logg))
			})
		})
	})

	return r
}
