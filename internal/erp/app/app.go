package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stripe/stripe-go/v79"

	"github.com/OolalaDXB/outrenational/internal/erp/external/billing"
	"github.com/OolalaDXB/outrenational/internal/erp/external/discogs"
	"github.com/OolalaDXB/outrenational/internal/erp/external/vies"
	httpapi "github.com/OolalaDXB/outrenational/internal/erp/http"
	"github.com/OolalaDXB/outrenational/internal/erp/service"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
	"github.com/OolalaDXB/outrenational/internal/erp/store/drivers/sqlite"
	"github.com/OolalaDXB/outrenational/pkg/cachex"
	"github.com/OolalaDXB/outrenational/pkg/cryptox"
	"github.com/OolalaDXB/outrenational/pkg/jwtx"
	"github.com/OolalaDXB/outrenational/pkg/metricsx"
	"github.com/OolalaDXB/outrenational/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application encapsulates the ERP service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db              store.Store
	cache           cachex.Store
	keyManager      *jwtx.KeyManager
	metricsShutdown func(context.Context) error

	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "erp",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := cryptox.LoadPepper(cfg.PepperFile); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	if cfg.MetricsEnabled {
		shutdown, err := metricsx.Setup(context.Background(), metricsx.Config{
			ServiceName:   "erp",
			ResourceAttrs: map[string]string{"service.version": BuildVersion, "deployment.environment": cfg.Env},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
		app.metricsShutdown = shutdown
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initCache(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	keyManager, err := InitSigningKeys(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		_ = app.cache.Close()
		return nil, fmt.Errorf("failed to initialize JWT keys: %w", err)
	}
	app.keyManager = keyManager

	app.initHTTP()

	return app, nil
}

// Handler exposes the router, mostly for in-process tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("erp service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests then releases every dependency.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down erp service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if app.metricsShutdown != nil {
		if err := app.metricsShutdown(ctx); err != nil {
			app.logger.Error("error flushing metrics", "error", err)
		}
	}

	if err := app.cache.Close(); err != nil {
		app.logger.Error("error closing cache", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("erp service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore("file:" + app.cfg.DatabaseFile + "?_pragma=journal_mode(WAL)")
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

// initCache connects to Redis when configured. Otherwise an in-process
// cache is used, which is only correct for a single replica.
func (app *Application) initCache() error {
	if app.cfg.RedisAddr == "" {
		app.cache = cachex.NewMemory()
		app.logger.Info("using in-memory cache")
		return nil
	}

	rdb, err := cachex.NewRedis(cachex.RedisConfig{
		Addr:     app.cfg.RedisAddr,
		Password: app.cfg.RedisPassword,
		DB:       app.cfg.RedisDB,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.cache = rdb
	app.logger.Info("using redis cache", "addr", app.cfg.RedisAddr, "db", app.cfg.RedisDB)
	return nil
}

// initHTTP builds every service, wires them to the router and prepares the
// server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet,
		app.keyManager.Verifier,
		BuildVersion,
		app.db,
		app.cache,
		app.logger,
	)

	orders := &service.OrderService{Store: app.db}
	invoices := &service.InvoiceService{Store: app.db}

	router.TenantService = &service.TenantService{Store: app.db}
	router.UserService = &service.UserService{Store: app.db}
	router.AuthService = &service.AuthService{
		KeyManager: app.keyManager,
		Store:      app.db,
		Issuer:     app.cfg.Issuer,
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
	}
	router.CatalogService = &service.CatalogService{
		Store:   app.db,
		Locks:   app.cache,
		Discogs: discogs.New(app.cfg.DiscogsBaseURL, app.cfg.DiscogsToken, app.cfg.DiscogsUserAgent, app.cache),
	}
	router.SupplierService = &service.SupplierService{Store: app.db}
	router.ConsignmentService = &service.ConsignmentService{Store: app.db}
	router.PurchaseOrderService = &service.PurchaseOrderService{Store: app.db}
	router.CustomerService = &service.CustomerService{Store: app.db}
	router.OrderService = orders
	router.InvoiceService = invoices
	router.VATService = &service.VATService{
		Store:    app.db,
		Checker:  vies.New(app.cfg.VIESBaseURL, nil),
		Cache:    app.cache,
		CacheTTL: app.cfg.VATCacheTTL,
	}
	router.BillingService = app.billingService()
	router.DashboardService = &service.DashboardService{Store: app.db}
	router.PortalService = &service.PortalService{Store: app.db, Orders: orders, Invoices: invoices}
	router.ApplyRoutes()

	app.router = router

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.cache,
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

func (app *Application) billingService() *service.BillingService {
	svc := &service.BillingService{Store: app.db, DefaultPriceID: app.cfg.StripeDefaultPriceID}
	if app.cfg.StripeSecretKey == "" {
		app.logger.Warn("STRIPE_SECRET_KEY not set, billing disabled")
		return svc
	}

	var backends *stripe.Backends
	if app.cfg.StripeBaseURL != "" {
		backends = billing.BackendsFor(app.cfg.StripeBaseURL)
	}
	svc.Gateway = billing.New(app.cfg.StripeSecretKey, app.cfg.StripeWebhookSecret, backends)
	return svc
}
