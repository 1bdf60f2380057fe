package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-service/config"
	"storefront-service/internal/api"
	"storefront-service/internal/broker"
	"storefront-service/internal/catalog"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/service"
	"storefront-service/internal/session"
	"storefront-service/internal/store"
	"storefront-service/internal/util"
	"storefront-service/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env, cfg.Log.File); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront service")

	tp, err := util.InitTracer("storefront-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	ctx := context.Background()

	var (
		source catalog.Source = catalog.StaticSource{}
		db     *store.Store
	)
	if cfg.Catalog.Source == config.CatalogSourcePostgres {
		db, err = store.NewStore(cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		logger.Info("Database connected")
		source = db
	}

	cat, err := catalog.Load(ctx, source)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	logger.Info("Catalog loaded",
		zap.String("source", cfg.Catalog.Source),
		zap.Int("products", cat.Len()))

	var redisClient *redisclient.Client
	if cfg.Session.Store == config.SessionStoreRedis || cfg.Kafka.Enabled() {
		redisClient, err = redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			if cfg.Session.Store == config.SessionStoreRedis {
				log.Fatalf("Failed to connect to Redis: %v", err)
			}
			logger.Warn("Redis unavailable, confirmations will not be de-duplicated", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			logger.Info("Redis connected")
		}
	}

	var sessionStore session.Store
	if cfg.Session.Store == config.SessionStoreRedis {
		sessionStore = session.NewRedisStore(redisClient, cfg.Session.TTL)
	} else {
		memoryStore := session.NewMemoryStore(cfg.Session.TTL, cfg.Session.SweepInterval)
		defer memoryStore.Close()
		sessionStore = memoryStore
	}
	sessions := session.NewManager(sessionStore, cat)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var (
		publisher          service.OrderPublisher
		confirmationWorker *worker.ConfirmationWorker
	)
	if cfg.Kafka.Enabled() {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
		defer producer.Close()
		logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		publisher = broker.NewEventPublisher(producer)

		var deduper service.EventDeduper
		if redisClient != nil {
			deduper = redisClient
		}
		confirmations := service.NewConfirmationService(deduper)

		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.ConsumerGroup)
		confirmationWorker = worker.NewConfirmationWorker(consumer, confirmations)
		go func() {
			if err := confirmationWorker.Start(workerCtx); err != nil {
				logger.Error("Confirmation worker error", zap.Error(err))
			}
		}()
	} else {
		logger.Info("Kafka disabled, order events will not be published")
	}

	storefront := service.NewStorefrontService(cat, sessions, publisher, cfg.Business.FeaturedProducts)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(storefront, cfg.Session.CookieName)
	if db != nil {
		handler.AddReadinessCheck("postgres", db)
	}
	if redisClient != nil {
		handler.AddReadinessCheck("redis", redisClient)
	}
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if confirmationWorker != nil {
		if err := confirmationWorker.Stop(); err != nil {
			logger.Warn("Error stopping confirmation worker", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}
