package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vetclinic/backend/internal/bootstrap"
	"github.com/vetclinic/backend/internal/domain/booking"
	"github.com/vetclinic/backend/internal/domain/inventory"
	"github.com/vetclinic/backend/internal/infrastructure/auth"
	"github.com/vetclinic/backend/internal/infrastructure/cache"
	"github.com/vetclinic/backend/internal/infrastructure/config"
	"github.com/vetclinic/backend/internal/infrastructure/logger"
	"github.com/vetclinic/backend/internal/infrastructure/metrics"
	"github.com/vetclinic/backend/internal/infrastructure/persistence"
	"github.com/vetclinic/backend/internal/infrastructure/telemetry"
	"github.com/vetclinic/backend/internal/interfaces/http/handler"
	"github.com/vetclinic/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

//go:generate swag init -g main.go -d ./,../../internal/interfaces/http/handler -o ../../docs --parseDependency

//	@title			Veterinary Clinic Back Office API
//	@version		1.0
//	@description	Staff API for invoicing, procurement, stock, finance and appointments, plus the public booking form.

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.NewForService(cfg.App, cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting clinic backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	ctx := context.Background()

	traceCfg := telemetry.ConfigFrom(cfg.Telemetry, version)
	traceCfg.Environment = cfg.App.Env
	tp, err := telemetry.NewTracerProvider(ctx, traceCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// PostgreSQL is migrated by cmd/migrate; the embedded SQLite store has no
	// migration history and is brought up to the models directly.
	if cfg.Database.Driver == "sqlite" {
		if err := persistence.AutoMigrate(db.DB); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracing.DBSystem = telemetry.DBSystemFor(cfg.Database.Driver)
	if err := telemetry.NewDBTracingPlugin(dbTracing, log).RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	stockPolicy, err := inventory.ParseNegativeStockPolicy(cfg.Inventory.NegativeStockPolicy)
	if err != nil {
		log.Fatal("Invalid inventory configuration", zap.Error(err))
	}
	location, err := time.LoadLocation(cfg.Booking.TimeZone)
	if err != nil {
		log.Fatal("Invalid booking time zone", zap.String("time_zone", cfg.Booking.TimeZone), zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	m := metrics.New()
	if sqlDB, err := db.SQL(); err == nil {
		if err := m.RegisterDBStats(sqlDB, cfg.Database.Driver); err != nil {
			log.Warn("Failed to export connection pool metrics", zap.Error(err))
		}
	}
	store := cache.NewIdempotencyStore(ctx, cfg.Redis, log)
	defer func() {
		_ = store.Close()
	}()

	services, err := bootstrap.NewServices(ctx, db.DB, bootstrap.Deps{
		Logger:              log,
		JWT:                 jwtService,
		Metrics:             m,
		IdempotencyStore:    store,
		IdempotencyTTL:      cfg.Audit.IdempotencyTTL,
		NegativeStockPolicy: stockPolicy,
		BookingPolicy:       booking.Policy{MaxAttempts: cfg.Booking.MaxAttempts, Window: cfg.Booking.Window},
		PhoneRegion:         cfg.Booking.DefaultRegion,
		Location:            location,
	})
	if err != nil {
		log.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer func() {
		_ = services.Bus.Stop(context.Background())
	}()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine, stopLimiters := router.New(router.Options{
		HTTP:           cfg.HTTP,
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: tp.IsEnabled(),
		JWT:            jwtService,
		Metrics:        m,
		Audit:          services.Audit,
		Swagger:        cfg.Swagger,
		Logger:         log,
	}, services.Handlers(map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
	}))
	defer stopLimiters()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("Shutting down server...", zap.String("signal", sig.String()))
	case err := <-serveErr:
		log.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}
