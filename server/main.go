package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventhub/api/routes"
	"eventhub/internal/notifications"
	"eventhub/internal/shared/config"
	"eventhub/internal/shared/database"
	"eventhub/internal/shared/middleware"
	"eventhub/pkg/logger"
	"eventhub/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		appLogger.Info("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect to storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Event producer: Kafka when configured, a no-op otherwise so the
	// engine never depends on the broker being up
	var producer notifications.Producer = notifications.NopProducer{}
	if cfg.Kafka.Enabled {
		producerConfig := notifications.DefaultKafkaProducerConfig()
		producerConfig.Brokers = cfg.Kafka.Brokers
		producerConfig.NotificationTopic = cfg.Kafka.NotificationTopic
		producerConfig.ReconciliationTopic = cfg.Kafka.ReconciliationTopic
		producerConfig.RetryMax = cfg.Kafka.RetryMax
		producerConfig.TimeoutMs = cfg.Kafka.TimeoutMs

		kafkaProducer, err := notifications.NewKafkaProducer(producerConfig, appLogger)
		if err != nil {
			appLogger.Error("failed to initialize Kafka producer", slog.Any("error", err))
			appLogger.Info("Continuing without event publishing")
		} else {
			producer = kafkaProducer
			defer func() {
				if err := kafkaProducer.Close(); err != nil {
					appLogger.Error("error closing Kafka producer", slog.Any("error", err))
				}
			}()
			appLogger.Info("Kafka producer initialized",
				slog.Any("brokers", cfg.Kafka.Brokers),
				slog.String("notification_topic", cfg.Kafka.NotificationTopic),
				slog.String("reconciliation_topic", cfg.Kafka.ReconciliationTopic),
			)
		}
	}

	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = ratelimit.NewRateLimiter(db.GetRedis(), &ratelimit.Config{
			Enabled:         cfg.RateLimit.Enabled,
			WindowDuration:  cfg.RateLimit.WindowDuration,
			DefaultRequests: cfg.RateLimit.DefaultRequests,
			PublicRequests:  cfg.RateLimit.PublicRequests,
			BookingRequests: cfg.RateLimit.BookingRequests,
			PaymentRequests: cfg.RateLimit.PaymentRequests,
			AdminRequests:   cfg.RateLimit.AdminRequests,
			HealthRequests:  cfg.RateLimit.HealthRequests,
		})
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	router := setupRouter(cfg, db, producer, rateLimiter, appLogger)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("api_base", cfg.GetAPIBasePath()),
			slog.Bool("kafka", cfg.Kafka.Enabled),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
			slog.Bool("single_booking_per_user", cfg.Booking.SinglePerUser),
			slog.Bool("release_on_payment_failure", cfg.Payment.ReleaseOnFailure),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func setupRouter(cfg *config.Config, db *database.DB, producer notifications.Producer, rateLimiter *ratelimit.RateLimiter, appLogger *logger.Logger) *gin.Engine {
	engine := gin.New()

	engine.Use(middleware.RequestID(), middleware.RequestLogger(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	appRouter := routes.NewRouter(cfg, db, producer, appLogger)
	appRouter.SetupRoutes(engine)

	return engine
}
