package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventease/config"
	"eventease/internal/auth"
	"eventease/internal/cache"
	"eventease/internal/database"
	"eventease/internal/geocode"
	"eventease/internal/handler"
	"eventease/internal/middleware"
	"eventease/internal/monitoring"
	"eventease/internal/queue"
	"eventease/internal/repository"
	"eventease/internal/service"
	"eventease/internal/storage"
	"eventease/internal/worker"
	"eventease/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	memoryFeedBuffer = 1000
	shutdownTimeout  = 10 * time.Second
)

func main() {
	defer logger.Sync()
	log := logger.WithComponent("server")

	cfg := config.LoadConfig()
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.InitDatabase(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.ApplySchema(ctx, pool); err != nil {
		log.Fatal("Failed to apply schema", zap.Error(err))
	}

	rdb, err := database.InitRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer rdb.Close()

	feed, err := newChangeFeed(ctx, cfg.Feed, rdb)
	if err != nil {
		log.Fatal("Failed to initialize change feed", zap.Error(err))
	}

	objectStorage, err := storage.NewCloudinaryStorage(&cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	geocoder := geocode.NewNominatimGeocoder(&cfg.Geocoder)

	// Repository
	eventRepo := repository.NewEventRepository(pool)
	registrationRepo := repository.NewRegistrationRepository(pool)
	likeRepo := repository.NewLikeRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)

	// Cache
	queryCache := cache.NewRedisQueryCache(rdb, cfg.Cache.StaleTTL)
	likeCounter := cache.NewRedisLikeCounter(rdb, cache.DefaultLikeStateTTL)

	// Service
	eventService := service.NewEventService(eventRepo, registrationRepo, queryCache, objectStorage, geocoder, feed, cfg.Cache.RetryBackoff)
	registrationService := service.NewRegistrationService(registrationRepo, eventRepo, feed, cfg.Cache.RetryBackoff)
	likeService := service.NewLikeService(likeRepo, eventRepo, likeCounter, feed)
	commentService := service.NewCommentService(commentRepo, eventRepo, queryCache, feed, cfg.Cache.RetryBackoff)
	profileService := service.NewProfileService(profileRepo, objectStorage, feed, cfg.Cache.RetryBackoff)

	// Worker
	if err := worker.NewInvalidationWorker(queryCache, likeCounter, feed).Start(ctx); err != nil {
		log.Fatal("Failed to start invalidation worker", zap.Error(err))
	}
	if err := worker.NewRefreshWorker(eventService, cfg.Cache.RefreshInterval).Start(ctx); err != nil {
		log.Fatal("Failed to start refresh worker", zap.Error(err))
	}
	go monitoring.CollectRuntime(ctx, 15*time.Second)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.AccessLog(logger.WithComponent("http")),
		middleware.Metrics(),
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RequestTimeout(cfg.Server.RequestTimeout),
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	if cfg.Server.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	verifier := auth.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	authn := handler.RouteAuth{
		Required: middleware.RequireAuth(verifier),
		Optional: middleware.OptionalAuth(verifier),
	}

	handler.NewEventHandler(eventService).RegisterRoutes(router, authn)
	handler.NewRegistrationHandler(registrationService).RegisterRoutes(router, authn)
	handler.NewLikeHandler(likeService).RegisterRoutes(router, authn)
	handler.NewCommentHandler(commentService).RegisterRoutes(router, authn)
	handler.NewProfileHandler(profileService).RegisterRoutes(router, authn)
	handler.NewGeocodeHandler(geocoder).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr), zap.String("feed", cfg.Feed.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server stopped unexpectedly", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}
}

// newChangeFeed 單機開發用 memory，多實例部署用 redis stream
func newChangeFeed(ctx context.Context, cfg config.FeedConfig, rdb *redis.Client) (queue.ChangeFeed, error) {
	if cfg.Driver == "memory" {
		return queue.NewMemoryChangeFeed(memoryFeedBuffer), nil
	}
	return queue.NewRedisStreamChangeFeed(ctx, rdb, cfg.ConsumerID, nil)
}
