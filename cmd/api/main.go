package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Stylish87l/RetailFlow/api/controllers"
	"github.com/Stylish87l/RetailFlow/api/routes"
	authsvc "github.com/Stylish87l/RetailFlow/internal/auth"
	checkoutsvc "github.com/Stylish87l/RetailFlow/internal/checkout"
	handoversvc "github.com/Stylish87l/RetailFlow/internal/handovers"
	productsvc "github.com/Stylish87l/RetailFlow/internal/products"
	reportsvc "github.com/Stylish87l/RetailFlow/internal/reports"
	salereturn "github.com/Stylish87l/RetailFlow/internal/returns"
	"github.com/Stylish87l/RetailFlow/internal/store/memory"
	tenantsvc "github.com/Stylish87l/RetailFlow/internal/tenants"
	txnsvc "github.com/Stylish87l/RetailFlow/internal/transactions"
	usersvc "github.com/Stylish87l/RetailFlow/internal/users"
	"github.com/Stylish87l/RetailFlow/pkg/config"
	"github.com/Stylish87l/RetailFlow/pkg/db"
	"github.com/Stylish87l/RetailFlow/pkg/logger"
	"github.com/Stylish87l/RetailFlow/pkg/metrics"
	"github.com/Stylish87l/RetailFlow/pkg/migrate"
	pkgredis "github.com/Stylish87l/RetailFlow/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	readiness := map[string]controllers.Pinger{}

	var svcs routes.Services
	if cfg.FeatureFlags.UseMemoryStore {
		svcs, err = buildMemoryServices(cfg, logg)
	} else {
		var dbClient *db.Client
		dbClient, err = db.New(context.Background(), cfg.DB, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap database", err)
			os.Exit(1)
		}
		defer func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}()
		if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
			logg.Error(context.Background(), "failed to run dev migrations", err)
			os.Exit(1)
		}
		readiness["database"] = dbClient
		svcs, err = buildDatabaseServices(cfg, dbClient)
	}
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = pkgredis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		readiness["redis"] = redisClient
	} else {
		logg.Warn(context.Background(), "redis not configured, idempotency replay and login throttling disabled")
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"memory_store": cfg.FeatureFlags.UseMemoryStore,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, redisClient, registry, httpMetrics, readiness, svcs),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

func buildDatabaseServices(cfg *config.Config, dbClient *db.Client) (routes.Services, error) {
	tenantRepo := tenantsvc.NewRepository(dbClient.DB())
	userRepo := usersvc.NewRepository(dbClient.DB())
	productRepo := productsvc.NewRepository(dbClient.DB())
	txnRepo := txnsvc.NewRepository(dbClient)
	returnRepo := salereturn.NewRepository(dbClient)
	handoverRepo := handoversvc.NewRepository(dbClient.DB())
	reportRepo := reportsvc.NewRepository(dbClient.DB())

	return assembleServices(cfg, serviceStores{
		tenants:      tenantRepo,
		users:        userRepo,
		userAccounts: userRepo,
		products:     productRepo,
		sales:        txnRepo,
		transactions: txnRepo,
		returns:      returnRepo,
		handovers:    handoverRepo,
		reports:      reportRepo,
	})
}

func buildMemoryServices(cfg *config.Config, logg *logger.Logger) (routes.Services, error) {
	store := memory.NewStore()
	if err := store.SeedDemo(context.Background()); err != nil {
		return routes.Services{}, err
	}
	logg.Info(context.Background(), "memory store seeded with demo shop")

	return assembleServices(cfg, serviceStores{
		tenants:      store.Tenants(),
		users:        store.Users(),
		userAccounts: store.Users(),
		products:     store.Products(),
		sales:        store.Sales(),
		transactions: store.Sales(),
		returns:      store.Returns(),
		handovers:    store.Handovers(),
		reports:      store.Reports(),
	})
}

type serviceStores struct {
	tenants      authsvc.TenantReader
	users        authsvc.UserReader
	userAccounts usersvc.Store
	products     productsvc.Store
	sales        checkoutsvc.Store
	transactions txnsvc.Store
	returns      salereturn.Store
	handovers    handoversvc.Store
	reports      reportsvc.Store
}

func assembleServices(cfg *config.Config, stores serviceStores) (routes.Services, error) {
	authService, err := authsvc.NewService(stores.tenants, stores.users, cfg.JWT)
	if err != nil {
		return routes.Services{}, err
	}
	userService, err := usersvc.NewService(stores.userAccounts)
	if err != nil {
		return routes.Services{}, err
	}
	productService, err := productsvc.NewService(stores.products)
	if err != nil {
		return routes.Services{}, err
	}
	checkoutService, err := checkoutsvc.NewService(stores.sales, cfg.Tax)
	if err != nil {
		return routes.Services{}, err
	}
	txnService, err := txnsvc.NewService(stores.transactions)
	if err != nil {
		return routes.Services{}, err
	}
	returnService, err := salereturn.NewService(stores.returns)
	if err != nil {
		return routes.Services{}, err
	}
	handoverService, err := handoversvc.NewService(stores.handovers)
	if err != nil {
		return routes.Services{}, err
	}
	reportService, err := reportsvc.NewService(stores.reports)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:         authService,
		Users:        userService,
		Products:     productService,
		Checkout:     checkoutService,
		Transactions: txnService,
		Returns:      returnService,
		Handovers:    handoverService,
		Reports:      reportService,
	}, nil
}
