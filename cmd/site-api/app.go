package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"pipsite/internal/analytics"
	"pipsite/internal/broker"
	"pipsite/internal/config"
	"pipsite/internal/constants"
	"pipsite/internal/content"
	"pipsite/internal/logger"
	"pipsite/internal/subscription"
	"pipsite/pkg/bootstrap"
	"pipsite/pkg/circuitbreaker"
	"pipsite/pkg/health"
	"pipsite/pkg/metrics"
	"pipsite/pkg/middleware"
	"pipsite/pkg/migrations"
	"pipsite/pkg/ratelimit"
	"pipsite/pkg/tracing"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type App struct {
	config         *config.Config
	logger         logger.Logger
	dbConnector    *bootstrap.DatabaseConnector
	mongoClient    *mongo.Client
	redisClient    *redis.Client
	sink           analytics.Sink
	contentService content.Service
	server         *http.Server
	router         *gin.Engine
	tracerProvider *tracing.TracerProvider
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		config:      cfg,
		logger:      log,
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.initDatabases(ctx); err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}

	a.initAnalytics()

	if err := a.initRouter(); err != nil {
		return fmt.Errorf("failed to initialize router: %w", err)
	}

	if err := a.initServer(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	tp, err := tracing.Init(a.config.Tracing, "site-api")
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracerProvider = tp

	a.warmupContent(ctx)

	return nil
}

func (a *App) initDatabases(ctx context.Context) error {
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	mongoClient, err := a.dbConnector.InitMongoDB(initCtx)
	if err != nil {
		return err
	}
	a.mongoClient = mongoClient

	if err := migrations.EnsureMongoIndexes(initCtx, a.mongoDatabase()); err != nil {
		a.logger.WarnwCtx(initCtx, "Failed to ensure MongoDB indexes", "error", err)
	}

	redisClient, err := a.dbConnector.InitRedis(initCtx)
	if err != nil {
		a.logger.WarnwCtx(initCtx, "Redis connection failed, content cache disabled", "error", err)
	} else {
		a.redisClient = redisClient
	}

	return nil
}

func (a *App) initAnalytics() {
	if !a.config.Analytics.Enabled {
		a.sink = analytics.NopSink{}
		return
	}

	producer, err := broker.NewProducer(a.config.Broker, a.logger)
	if err != nil {
		a.logger.Warnw("Failed to create analytics producer, analytics disabled", "error", err)
		a.sink = analytics.NopSink{}
		return
	}

	topic := a.config.Analytics.Topic
	if topic == "" {
		topic = a.config.Broker.Kafka.Topic
	}

	a.sink = analytics.NewKafkaSink(producer, topic, a.config.Broker.Kafka.Retry, a.logger)
	a.logger.Infow("Analytics sink initialized", "topic", topic)
}

func (a *App) initRouter() error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if a.config.Tracing.Enabled {
		router.Use(tracing.GinMiddleware("site-api"))
	}

	router.Use(middleware.RecoveryMiddleware(a.logger))
	router.Use(middleware.LoggerMiddleware(a.logger))
	router.Use(middleware.RequestIDMiddleware())

	if a.config.Subscription.RateLimit.Enabled {
		rateLimitConfig := ratelimit.RateLimitConfig{
			RPS:             a.config.Subscription.RateLimit.RPS,
			Burst:           a.config.Subscription.RateLimit.Burst,
			CleanupInterval: time.Duration(a.config.Subscription.RateLimit.CleanupInterval) * time.Second,
			MaxAge:          time.Duration(a.config.Subscription.RateLimit.MaxAge) * time.Second,
		}
		router.Use(ratelimit.RateLimitMiddleware(rateLimitConfig))
		a.logger.Infow("Rate limiting enabled", "rps", rateLimitConfig.RPS, "burst", rateLimitConfig.Burst)
	}

	metrics.RegisterSubscriptionMetrics()
	metrics.RegisterContentMetrics()
	metrics.RegisterAnalyticsMetrics()
	metrics.RegisterCircuitBreakerMetrics()
	metrics.RegisterDatabaseMetrics()

	mongoDB := a.mongoDatabase()

	subscriptionRepo := subscription.NewRepository(mongoDB)
	subscriptionService := subscription.NewService(subscriptionRepo, a.sink, a.logger)
	subscriptionHandler := subscription.NewHandler(subscriptionService, a.logger)
	subscriptionHandler.RegisterRoutes(router)

	contentRepo := content.NewRepository(mongoDB)
	contentCache := content.NewCache(a.redisClient, time.Duration(a.config.Content.CacheTTLSeconds)*time.Second)
	contentService := content.NewService(contentRepo, contentCache, a.contentBreaker(), a.logger)
	contentHandler := content.NewHandler(contentService, a.logger)
	contentHandler.RegisterRoutes(router)
	a.contentService = contentService

	healthRegistry := health.NewCheckerRegistry()
	healthRegistry.Register(health.NewMongoDBChecker(a.mongoClient))
	if a.redisClient != nil {
		healthRegistry.Register(health.NewRedisChecker(a.redisClient))
	}

	router.GET("/health", func(c *gin.Context) {
		h := healthRegistry.Check(c.Request.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, h)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	a.router = router
	return nil
}

func (a *App) contentBreaker() *circuitbreaker.Wrapper {
	cbCfg := a.config.Content.CircuitBreaker
	if !cbCfg.Enabled {
		return nil
	}

	cfg := circuitbreaker.DefaultConfig("content-store")
	if cbCfg.MaxRequests > 0 {
		cfg.MaxRequests = cbCfg.MaxRequests
	}
	if cbCfg.Interval > 0 {
		cfg.Interval = cbCfg.Interval
	}
	if cbCfg.Timeout > 0 {
		cfg.Timeout = cbCfg.Timeout
	}

	return circuitbreaker.NewWrapper(cfg)
}

func (a *App) mongoDatabase() *mongo.Database {
	dbName := a.config.Database.MongoDB.Database
	if dbName == "" {
		dbName = constants.DefaultMongoDBName
	}
	return a.mongoClient.Database(dbName)
}

func (a *App) warmupContent(ctx context.Context) {
	warmCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.contentService.Warmup(warmCtx); err != nil {
		a.logger.WarnwCtx(warmCtx, "Content cache warmup failed", "error", err)
	}
}

func (a *App) initServer() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeoutSeconds) * time.Second,
	}
	return nil
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.InfowCtx(ctx, "Server listening", "port", a.config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return a.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.InfowCtx(ctx, "Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	var errs []error

	if a.server != nil {
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
		}
	}

	if a.sink != nil {
		if err := a.sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("analytics sink close error: %w", err))
		}
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown error: %w", err))
		}
	}

	dbErrs := a.dbConnector.ShutdownDatabases(ctx, a.redisClient, a.mongoClient)
	errs = append(errs, dbErrs...)

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	a.logger.InfowCtx(ctx, "Server exited successfully")
	return nil
}
