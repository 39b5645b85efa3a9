package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/richxcame/review-guard/internal/alerts"
	"github.com/richxcame/review-guard/internal/predictor"
	"github.com/richxcame/review-guard/internal/scoring"
	"github.com/richxcame/review-guard/internal/sellerrisk"
	"github.com/richxcame/review-guard/pkg/common"
	"github.com/richxcame/review-guard/pkg/config"
	"github.com/richxcame/review-guard/pkg/database"
	"github.com/richxcame/review-guard/pkg/eventbus"
	"github.com/richxcame/review-guard/pkg/health"
	"github.com/richxcame/review-guard/pkg/logger"
	"github.com/richxcame/review-guard/pkg/middleware"
	"github.com/richxcame/review-guard/pkg/ratelimit"
	"github.com/richxcame/review-guard/pkg/redis"
	"github.com/richxcame/review-guard/pkg/secrets"
	"github.com/richxcame/review-guard/pkg/storage"
	"github.com/richxcame/review-guard/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	serviceName = "review-scoring"
	version     = "1.0.0"
)

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Server.Environment, serviceName); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting review scoring service",
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Secrets.Provider != "" {
		if err := loadSecrets(ctx, cfg); err != nil {
			logger.Fatal("Failed to resolve secrets", zap.Error(err))
		}
	}

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			Release:          serviceName + "@" + version,
			SampleRate:       cfg.Sentry.SampleRate,
			AttachStacktrace: true,
		}); err != nil {
			logger.Warn("Sentry disabled", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	shutdownTracing, err := tracing.Init(ctx, serviceName, version, cfg.Tracing)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Tracing shutdown failed", zap.Error(err))
		}
	}()

	checkerCfg := health.DefaultCheckerConfig()
	checks := map[string]common.CheckFunc{}

	var pool *pgxpool.Pool
	if cfg.Database.Enabled {
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(&cfg.Database); err != nil {
				logger.Fatal("Failed to migrate database", zap.Error(err))
			}
		}
		pool, err = database.NewPostgresPool(ctx, &cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer database.Close(pool)
		checks["database"] = health.DatabaseChecker(pool, checkerCfg)
		logger.Info("Connected to PostgreSQL")
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		checks["redis"] = health.RedisChecker(redisClient.Client, checkerCfg)
		logger.Info("Connected to Redis")
	}

	var bus *eventbus.Bus
	var publisher scoring.EventPublisher
	if cfg.NATS.Enabled {
		bus, err = eventbus.New(eventbus.Config{URL: cfg.NATS.URL, Name: serviceName})
		if err != nil {
			logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer bus.Close()
		publisher = bus
		checks["nats"] = health.PingChecker(bus, checkerCfg)
		logger.Info("Connected to NATS", zap.String("url", cfg.NATS.URL))
	}

	var model scoring.Predictor
	if cfg.Predictor.URL != "" {
		remote := predictor.NewHTTPPredictor(cfg.Predictor)
		checks["predictor"] = health.PingChecker(remote, checkerCfg)
		model = remote
		logger.Info("Using remote predictor", zap.String("url", cfg.Predictor.URL))
	} else {
		model = predictor.NewHeuristicPredictor(cfg.Predictor.BaselineProbability)
		logger.Warn("PREDICTOR_URL not set, using heuristic predictor",
			zap.Float64("baseline", cfg.Predictor.BaselineProbability))
	}
	if redisClient != nil {
		model = predictor.NewCachedPredictor(model, redisClient, cfg.Scoring.CacheTTL)
	}

	encoder := predictor.NewHashingEncoder(cfg.Scoring.SequenceLength, cfg.Scoring.VocabularySize)
	scoringService := scoring.NewService(encoder, model, publisher, scoring.Config{
		BatchConcurrency: cfg.Scoring.BatchConcurrency,
		MaxBatchSize:     cfg.Scoring.MaxBatchSize,
		Source:           serviceName,
	})

	var riskRepo sellerrisk.RepositoryInterface
	if pool != nil {
		riskRepo = sellerrisk.NewRepository(pool)
	}
	riskService := sellerrisk.NewService(scoringService, riskRepo, publisher)
	if cfg.Storage.Enabled {
		store, err := storage.NewS3Store(ctx, cfg.Storage)
		if err != nil {
			logger.Fatal("Failed to initialize report storage", zap.Error(err))
		}
		riskService.WithArchive(storage.NewReportArchive(store, cfg.Storage.Prefix, cfg.Storage.PresignExpiry))
		logger.Info("Archiving assessment reports", zap.String("bucket", cfg.Storage.Bucket))
	}

	var alertHandler *alerts.Handler
	if pool != nil {
		alertService := alerts.NewService(alerts.NewRepository(pool))
		alertHandler = alerts.NewHandler(alertService)
		if bus != nil {
			if err := alerts.NewEventHandler(alertService).RegisterSubscriptions(ctx, bus); err != nil {
				logger.Fatal("Failed to subscribe alert consumers", zap.Error(err))
			}
		}
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.CorrelationID())
	if cfg.Sentry.DSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(serviceName))
	router.Use(middleware.Recovery())
	router.Use(middleware.SecurityHeaders())

	corsConfig := cors.DefaultConfig()
	if origins := splitOrigins(cfg.Server.CORSOrigins); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", middleware.CorrelationIDHeader, middleware.APIKeyHeader}
	router.Use(cors.New(corsConfig))

	router.GET("/livez", common.HealthCheck(serviceName, version))
	router.GET("/healthz", common.HealthCheckWithDeps(serviceName, version, checks))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(middleware.MaxBodySize(cfg.Server.MaxBodyBytes))
	api.Use(middleware.RequestTimeout(cfg.Server.RequestTimeout))
	if redisClient != nil && cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(ratelimit.NewLimiter(redisClient.Client, cfg.RateLimit)))
	}
	scoring.NewHandler(scoringService).RegisterRoutes(api)
	sellerrisk.NewHandler(riskService, scoringService.MaxBatchSize()).RegisterRoutes(api)
	if alertHandler != nil {
		alertHandler.RegisterRoutes(api)
	} else {
		logger.Warn("DB_ENABLED is false, alert routes are not registered")
	}

	var handler http.Handler = router
	if cfg.Tracing.Enabled {
		handler = otelhttp.NewHandler(router, serviceName)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Review scoring service listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down review scoring service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
}

func loadSecrets(ctx context.Context, cfg *config.Config) error {
	manager, err := secrets.NewManager(ctx, secrets.ConfigFrom(cfg.Secrets))
	if err != nil {
		return err
	}
	defer manager.Close()

	logger.Info("Resolving secrets", zap.String("provider", string(manager.Provider())))
	return secrets.Apply(ctx, manager, cfg)
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
