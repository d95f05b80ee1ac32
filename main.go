package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"hotel-frontdesk/cache"
	"hotel-frontdesk/config"
	"hotel-frontdesk/controllers"
	"hotel-frontdesk/events"
	"hotel-frontdesk/middleware"
	"hotel-frontdesk/routes"
	"hotel-frontdesk/services"
	"hotel-frontdesk/storage"
	"hotel-frontdesk/store"
)

func newLogger(cfg *config.Config) *logrus.Logger {
	lg := logrus.New()
	lg.SetOutput(os.Stdout)
	if cfg.IsProduction() {
		lg.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	} else {
		lg.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		lg.WithField("level", cfg.Server.LogLevel).Warn("⚠️  Unknown LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	lg.SetLevel(level)
	return lg
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("❌ Invalid configuration: %v", err)
	}
	lg := newLogger(cfg)

	// money goes over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	db, err := config.ConnectDatabase(cfg, lg)
	if err != nil {
		lg.Fatalf("❌ Database connect failed: %v", err)
	}
	lg.WithField("driver", cfg.Database.Driver).Info("✅ Database connection established")
	st := store.NewGormStore(db)

	// Redis is optional: without it the change feed and revocations live in this process only.
	var (
		rdb         *redis.Client
		feed        events.Feed
		revocations cache.RevocationStore
	)
	if cfg.Redis.Addr != "" {
		rdb, err = cache.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			lg.Fatalf("❌ Redis connect failed: %v", err)
		}
		feed = events.NewRedisFeed(rdb, cfg.Redis.Channel, lg)
		revocations = cache.NewRedisRevocations(rdb)
		lg.WithField("addr", cfg.Redis.Addr).Info("✅ Redis connected")
	} else {
		feed = events.NewMemoryFeed()
		revocations = cache.NewMemoryRevocations()
		lg.Info("ℹ️  REDIS_ADDR not set; change feed is in-process")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var archive storage.InvoiceArchive = storage.NopArchive{}
	if cfg.S3.Bucket != "" {
		archive, err = storage.NewS3Archive(ctx, cfg.S3)
		if err != nil {
			lg.Fatalf("❌ S3 archive setup failed: %v", err)
		}
		lg.WithField("bucket", cfg.S3.Bucket).Info("✅ Invoice archive enabled")
	}

	// Initialize services
	sources := services.NewBookingSourceService(st, feed, lg)
	sources.Watch(ctx)
	allocations := services.NewAllocationService(st, sources, feed, lg)
	invoices := services.NewInvoiceService(st, feed, lg)
	render := services.NewInvoiceRenderService(st, invoices, archive, lg, cfg.Invoice.DefaultHSNSAC)
	alerts := services.NewAlertCenter()
	scheduler := services.NewAutoCheckoutService(allocations, alerts, lg, cfg.Scheduler.Spec, cfg.Scheduler.AlertWindow)
	auth := services.NewAuthService(db, revocations, lg, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.BcryptCost)

	// Initialize controllers
	handlers := routes.Handlers{
		Auth:        controllers.NewAuthController(auth),
		Allocations: controllers.NewAllocationController(allocations, render, services.NewSubmissionGuard()),
		Rooms:       controllers.NewRoomController(services.NewRoomService(st, feed, lg), services.NewAvailabilityService(st)),
		Customers:   controllers.NewCustomerController(services.NewCustomerService(st, feed, lg), services.NewLedgerService(st)),
		Employees:   controllers.NewEmployeeController(services.NewEmployeeService(st, feed, lg)),
		Settings:    controllers.NewSettingsController(services.NewSettingsService(st, feed), sources),
		Roles:       controllers.NewRoleController(services.NewRoleService(db, lg)),
		Staff:       controllers.NewStaffController(auth),
		FrontDesk:   controllers.NewFrontDeskController(services.NewDashboardService(st), alerts, scheduler),
		Stream:      controllers.NewStreamController(feed),
	}
	limiter := middleware.NewLoginLimiter(cfg.Auth.LoginRatePerMin, cfg.Auth.LoginBurst, lg)
	router := routes.SetupRouter(handlers, auth, limiter, cfg.CORS, lg)

	if cfg.Scheduler.Enabled {
		if err := scheduler.Start(); err != nil {
			lg.Fatalf("❌ Auto-checkout scheduler failed to start: %v", err)
		}
		lg.WithField("spec", cfg.Scheduler.Spec).Info("✅ Auto-checkout scheduler started")
	}

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// no write timeout: /api/stream holds the response open
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	go func() {
		lg.Infof("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	lg.Warn("⚠️  Shutdown signal received, shutting down server...")

	if cfg.Scheduler.Enabled {
		scheduler.Stop()
	}
	// ends open event streams so Shutdown is not held up by them
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Errorf("❌ Server forced to shutdown: %v", err)
	}
	if rdb != nil {
		if err := cache.DisconnectRedis(rdb); err != nil {
			lg.WithError(err).Warn("failed to close redis")
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	lg.Info("✅ Server stopped gracefully")
}
