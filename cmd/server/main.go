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
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	identityapp "github.com/zreport/backend/internal/application/identity"
	mdapp "github.com/zreport/backend/internal/application/masterdata"
	reportapp "github.com/zreport/backend/internal/application/zreport"
	"github.com/zreport/backend/internal/infrastructure/auth"
	"github.com/zreport/backend/internal/infrastructure/cache"
	"github.com/zreport/backend/internal/infrastructure/config"
	"github.com/zreport/backend/internal/infrastructure/event"
	"github.com/zreport/backend/internal/infrastructure/logger"
	"github.com/zreport/backend/internal/infrastructure/persistence"
	"github.com/zreport/backend/internal/infrastructure/telemetry"
	"github.com/zreport/backend/internal/interfaces/http/handler"
	"github.com/zreport/backend/internal/interfaces/http/middleware"
	"github.com/zreport/backend/internal/interfaces/http/router"
)

//	@title			Z-Report API
//	@version		1.0
//	@description	Daily till closing (Z-report) entry, review and export.

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
		_ = log.Sync()
	}()

	log.Info("Starting Z-report backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		_ = tracerProvider.Shutdown(context.Background())
	}()

	gormLevel := cfg.Database.LogLevel
	if gormLevel == "" {
		gormLevel = cfg.Log.Level
	}
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(gormLevel),
		logger.WithSlowThreshold(cfg.Database.SlowThreshold))

	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled: cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:  cfg.Database.DBName,
	}, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	// Locks and revoked tokens live in redis when it is configured, so
	// several replicas agree on them.
	var (
		locker    cache.Locker
		blacklist auth.TokenBlacklist
	)
	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
		}
		defer func() {
			_ = rdb.Close()
		}()
		locker = cache.NewRedisLocker(rdb)
		blacklist = auth.NewRedisTokenBlacklist(rdb)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		locker = cache.NewInProcessLocker()
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Info("Redis disabled, using in-process locks and token blacklist")
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	md := reportapp.MasterData{
		Tills:     persistence.NewGormTillRepository(db.DB),
		Banks:     persistence.NewGormBankRepository(db.DB),
		Terminals: persistence.NewGormTerminalRepository(db.DB),
		Cashiers:  persistence.NewGormCashierRepository(db.DB),
	}
	reportRepo := persistence.NewGormReportRepository(db.DB)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewReportAuditHandler(log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		_ = eventBus.Stop(context.Background())
	}()

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	reportService := reportapp.NewService(reportRepo, md, locker, eventBus, reportapp.ServiceConfig{
		ListingDays: cfg.Report.ListingDays,
		LockTTL:     cfg.Report.LockTTL,
		Location:    cfg.App.Location(),
	}, log)
	mdService := mdapp.NewService(md.Tills, md.Banks, md.Terminals, md.Cashiers, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS(cfg.HTTP.CORSAllowOrigins))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		Enabled:        tracerProvider.IsEnabled(),
		TracerProvider: otel.GetTracerProvider(),
	}))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.HTTP.RateLimitRPS,
			BurstSize:         cfg.HTTP.RateLimitBurst,
		})
		engine.Use(limiter.Middleware())
	}

	loginLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.HTTP.AuthRateLimitRPS,
		BurstSize:         cfg.HTTP.AuthRateLimitBurst,
	})

	router.RegisterAPI(engine, router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Reports:    handler.NewReportHandler(reportService),
		MasterData: handler.NewMasterDataHandler(mdService),
		Health:     handler.NewHealthHandler(db),
	}, router.APIConfig{
		Authenticate: middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService:  jwtService,
			Revocations: authService,
			Logger:      log,
		}),
		LoginLimiter: loginLimiter.Middleware(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
