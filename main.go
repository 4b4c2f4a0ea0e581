// File: washx/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"washx/config"
	"washx/cron"
	"washx/database"
	"washx/database/repository"
	"washx/handlers"
	"washx/middleware"
	"washx/routes"
	"washx/services/booking"
	"washx/services/discovery"
	"washx/services/geo"
	"washx/services/provider"
	"washx/services/rating"
	"washx/services/review"
	"washx/services/tasks"
	"washx/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.GetLogger().Sugar().Fatalf("main: failed to load config: %v", err)
	}
	logger := utils.InitializeLogger(cfg.IsProduction(), cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Storage and geo index.
	var (
		store *repository.Store
		index geo.GeoIndex
	)
	switch cfg.StoreDriver {
	case "mongo":
		db, err := database.InitDB(cfg.DatabaseURL, cfg.DatabaseName)
		if err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
		store, err = repository.NewMongoStore(db)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to prepare collections: %v", err)
		}
		index = geo.NewMongoIndex(store.MongoProviders)
	default:
		store = repository.NewMemoryStore()
		memIndex := geo.NewMemoryIndex()
		if err := memIndex.Load(ctx, store.Providers); err != nil {
			logger.Sugar().Fatalf("main: failed to load geo index: %v", err)
		}
		index = memIndex
	}
	logger.Info("Store ready", zap.String("driver", cfg.StoreDriver))

	// Redis backs the distributed rating lock, the recompute queue and the health probe.
	var redisClient *redis.Client
	if cfg.UsesRedis() {
		redisClient, err = utils.NewRedisClient(cfg, cfg.RedisLockDB)
		if err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
		defer redisClient.Close()
	}

	var locker rating.Locker = rating.NewKeyedMutex()
	if cfg.RatingLocker == "redis" {
		locker = rating.NewRedisLocker(redisClient, cfg.RatingLockTTL)
	}
	aggregator := rating.NewAggregator(store.Providers, store.Reviews, locker, cfg.RatingMaxAttempts)

	var (
		scheduler tasks.RatingScheduler
		worker    *cron.RatingWorker
	)
	if cfg.RatingQueue == "redis" {
		asynqClient := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisQueueDB,
		})
		defer asynqClient.Close()
		scheduler = tasks.NewAsynqScheduler(asynqClient)

		worker = cron.NewRatingWorker(cfg, aggregator)
		if err := worker.Start(); err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
	} else {
		scheduler = &tasks.InProcessScheduler{
			Recompute: func(ctx context.Context, providerID string) error {
				_, err := aggregator.Recompute(ctx, providerID)
				return err
			},
			Attempts: cfg.RatingRetryAttempts,
			Backoff:  cfg.RatingRetryBackoff,
		}
	}

	health := &utils.HealthMonitor{Redis: redisClient, Mongo: database.MongoClient}
	health.Start(ctx)

	// Services.
	providerService := &provider.DefaultProviderService{
		Repo:     store.Providers,
		Services: store.Services,
		Reviews:  store.Reviews,
		Index:    index,
		Ratings:  aggregator,
	}
	discoveryService := &discovery.Pipeline{
		Providers:    store.Providers,
		Services:     store.Services,
		Index:        index,
		DefaultLimit: cfg.NearbyDefaultLimit,
		MaxLimit:     cfg.NearbyMaxLimit,
	}
	bookingService := &booking.DefaultBookingService{
		Bookings:  store.Bookings,
		Providers: store.Providers,
		Services:  store.Services,
	}
	reviewService := &review.DefaultReviewService{
		Reviews:    store.Reviews,
		Bookings:   store.Bookings,
		Aggregator: aggregator,
		Scheduler:  scheduler,
	}

	// Handlers.
	providerHandler := handlers.NewProviderHandler(providerService, discoveryService, handlers.NearbyDefaults{
		RadiusKm: cfg.NearbyDefaultRadiusKm,
		Limit:    cfg.NearbyDefaultLimit,
		MaxLimit: cfg.NearbyMaxLimit,
	})
	bookingHandler := handlers.NewBookingHandler(bookingService)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	handlerBundle := &handlers.HandlerBundle{
		// Provider endpoints.
		RegisterProviderHandler: providerHandler.RegisterProviderHandler,
		GetProviderByIDHandler:  providerHandler.GetProviderByIDHandler,
		UpdateLocationHandler:   providerHandler.UpdateLocationHandler,
		SetStatusHandler:        providerHandler.SetStatusHandler,
		NearbyProvidersHandler:  providerHandler.NearbyProvidersHandler,
		SearchProvidersHandler:  providerHandler.SearchProvidersHandler,
		RecomputeRatingHandler:  providerHandler.RecomputeRatingHandler,

		// Catalogue endpoints.
		AddServiceHandler:   providerHandler.AddServiceHandler,
		ListServicesHandler: providerHandler.ListServicesHandler,
		ListReviewsHandler:  providerHandler.ListReviewsHandler,

		// Booking endpoints.
		CreateBookingHandler: bookingHandler.CreateBookingHandler,
		GetBookingHandler:    bookingHandler.GetBookingHandler,
		UpdateBookingHandler: bookingHandler.UpdateBookingHandler,

		// Review endpoints.
		CreateReviewHandler: reviewHandler.CreateReviewHandler,
		DeleteReviewHandler: reviewHandler.DeleteReviewHandler,

		HealthHandler: handlers.HealthHandler(health),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger, cfg.RequestTimeout))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle, cfg.AdminToken)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if worker != nil {
		worker.Shutdown()
	}
	stop()
	if database.MongoClient != nil {
		_ = database.MongoClient.Disconnect(shutdownCtx)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
