package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	payableapp "github.com/gestorloja/backend/internal/application/payable"
	reportapp "github.com/gestorloja/backend/internal/application/report"
	treasuryapp "github.com/gestorloja/backend/internal/application/treasury"
	"github.com/gestorloja/backend/internal/infrastructure/cache"
	"github.com/gestorloja/backend/internal/infrastructure/config"
	"github.com/gestorloja/backend/internal/infrastructure/event"
	"github.com/gestorloja/backend/internal/infrastructure/logger"
	"github.com/gestorloja/backend/internal/infrastructure/persistence"
	"github.com/gestorloja/backend/internal/infrastructure/telemetry"
	"github.com/gestorloja/backend/internal/interfaces/http/handler"
	"github.com/gestorloja/backend/internal/interfaces/http/middleware"
	"github.com/gestorloja/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Tesouraria Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
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

	// Initialize telemetry (no-op providers when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Database query tracing rides on the tracer provider
	dbTracing := telemetry.NewDBTracing(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh: cfg.Telemetry.SlowQueryThreshold,
		DBName:          cfg.Database.DBName,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Initialize repositories
	walletRepo := persistence.NewGormWalletRepository(db.DB)
	methodRepo := persistence.NewGormPaymentMethodRepository(db.DB)
	feeScheduleRepo := persistence.NewGormFeeScheduleRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerEntryRepository(db.DB)
	billRepo := persistence.NewGormBillRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	reportRepo := persistence.NewGormReconciliationReportRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Treasury business metrics (only when the meter provider exports anywhere)
	var treasuryMetrics *telemetry.TreasuryMetrics
	if meterProvider.IsEnabled() {
		treasuryMetrics, err = telemetry.NewTreasuryMetrics(telemetry.TreasuryMetricsConfig{
			Meter:        meterProvider.Meter("treasury"),
			Logger:       log,
			BillProvider: billRepo,
		})
		if err != nil {
			log.Fatal("Failed to initialize treasury metrics", zap.Error(err))
		}
		treasuryMetrics.StartPeriodicCollection(context.Background(), 5*time.Minute)
		defer treasuryMetrics.Stop()
	}

	// Balance cache: Redis when enabled, per-process memory otherwise
	var balanceCache treasuryapp.BalanceCache
	if cfg.Treasury.BalanceCacheEnabled {
		redisCache, err := cache.NewRedisBalanceCache(&cfg.Redis,
			cache.WithBalanceTTL(cfg.Treasury.BalanceCacheTTL),
			cache.WithBalanceCacheLogger(log),
			cache.WithBalanceCacheMetrics(treasuryMetrics),
		)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		balanceCache = redisCache
		log.Info("Balance cache enabled",
			zap.String("backend", "redis"),
			zap.Duration("ttl", cfg.Treasury.BalanceCacheTTL),
		)
	} else {
		balanceCache = cache.NewInMemoryBalanceCache(cfg.Treasury.BalanceCacheTTL)
	}

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Initialize application services
	balancePolicy := treasuryapp.NegativeBalancePolicy(cfg.Treasury.NegativeBalancePolicy)
	walletService := treasuryapp.NewWalletService(walletRepo, methodRepo, txScope, eventBus, log)
	methodService := treasuryapp.NewPaymentMethodService(methodRepo, walletRepo, eventBus)
	feeScheduleService := treasuryapp.NewFeeScheduleService(methodRepo, feeScheduleRepo, txScope, eventBus)
	ledgerService := treasuryapp.NewLedgerService(ledgerRepo, methodRepo, txScope, eventBus, balancePolicy, log)
	balanceService := treasuryapp.NewBalanceService(ledgerRepo, methodRepo, balanceCache, log)
	saleLedgerService := treasuryapp.NewSaleLedgerService(saleRepo, ledgerRepo, methodRepo, feeScheduleRepo, txScope, eventBus, log)
	saleLifecycleService := treasuryapp.NewSaleLifecycleService(saleRepo, eventBus, log)
	billService := payableapp.NewBillService(billRepo)
	reconciliationService := reportapp.NewReconciliationService(reportRepo, methodRepo)

	// Register event handlers for cross-context integration
	// Sale lifecycle -> ledger recognition / reversal
	saleFinalizedHandler := treasuryapp.NewSaleFinalizedHandler(saleLedgerService, log)
	eventBus.Subscribe(saleFinalizedHandler)

	saleCancelledHandler := treasuryapp.NewSaleCancelledHandler(saleLedgerService, log)
	eventBus.Subscribe(saleCancelledHandler)

	saleRefundedHandler := treasuryapp.NewSaleRefundedHandler(saleLedgerService, log)
	eventBus.Subscribe(saleRefundedHandler)

	// Movement recorded -> balance cache eviction
	balanceInvalidationHandler := treasuryapp.NewBalanceInvalidationHandler(balanceCache, methodRepo, log)
	eventBus.Subscribe(balanceInvalidationHandler)

	log.Info("Event handlers registered",
		zap.Strings("sale_finalized_events", saleFinalizedHandler.EventTypes()),
		zap.Strings("sale_cancelled_events", saleCancelledHandler.EventTypes()),
		zap.Strings("sale_refunded_events", saleRefundedHandler.EventTypes()),
		zap.Strings("balance_invalidation_events", balanceInvalidationHandler.EventTypes()),
	)

	// Ledger entries feed the business metrics after each commit
	if treasuryMetrics != nil {
		ledgerMetricsHandler := treasuryapp.NewLedgerMetricsHandler(ledgerRepo, treasuryMetrics, log)
		eventBus.Subscribe(ledgerMetricsHandler)
	}

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	walletHandler := handler.NewWalletHandler(walletService)
	methodHandler := handler.NewPaymentMethodHandler(methodService)
	feeScheduleHandler := handler.NewFeeScheduleHandler(feeScheduleService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	balanceHandler := handler.NewBalanceHandler(balanceService)
	billHandler := handler.NewBillHandler(billService)
	saleHandler := handler.NewSaleHandler(saleLifecycleService)
	reportHandler := handler.NewReportHandler(reconciliationService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, in order: request ID, panic recovery, request
	// logging, tracing, metrics, security headers, CORS, body limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		ServiceName:   cfg.Telemetry.ServiceName,
		Enabled:       cfg.Telemetry.Enabled,
	}))

	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Register API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(walletHandler).
		Register(methodHandler).
		Register(feeScheduleHandler).
		Register(ledgerHandler).
		Register(balanceHandler).
		Register(billHandler).
		Register(saleHandler).
		Register(reportHandler).
		Register(systemHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
