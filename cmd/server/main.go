package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/havenstay/service-rental/internal/application"
	"github.com/havenstay/service-rental/internal/config"
	bookingDomain "github.com/havenstay/service-rental/internal/domain/booking"
	rentalEvents "github.com/havenstay/service-rental/internal/events"
	"github.com/havenstay/service-rental/internal/handler"
	"github.com/havenstay/service-rental/internal/payment"
	"github.com/havenstay/service-rental/internal/platform/auth"
	"github.com/havenstay/service-rental/internal/platform/database"
	"github.com/havenstay/service-rental/internal/platform/health"
	"github.com/havenstay/service-rental/internal/platform/kafka"
	"github.com/havenstay/service-rental/internal/platform/logger"
	"github.com/havenstay/service-rental/internal/platform/middleware"
	"github.com/havenstay/service-rental/internal/platform/ratelimit"
	"github.com/havenstay/service-rental/internal/platform/telemetry"
	"github.com/havenstay/service-rental/internal/repository"
)

const serviceName = "service-rental"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTelEndpoint, serviceName)
	if err != nil {
		log.Fatal("failed to set up tracing", zap.Error(err))
	}

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.IsDevelopment() {
		if err := db.AutoMigrate(repository.Models()...); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, cfg.JWTConfig.TTL)

	// Events are optional; without brokers they are dropped.
	var publisher application.EventPublisher = application.DiscardPublisher{}
	if cfg.KafkaConfig.Enabled() {
		producer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = producer.Close() }()
		publisher = producer
	} else {
		log.Warn("KAFKA_BROKERS not set, domain events are disabled")
	}

	// Initialize repositories
	userRepo := repository.NewGormUserRepository(db)
	listingRepo := repository.NewGormListingRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	reviewRepo := repository.NewGormReviewRepository(db)

	var gateway application.CheckoutGateway
	if g := payment.NewStripeGateway(cfg.StripeSecretKey); g != nil {
		gateway = g
	} else {
		log.Warn("STRIPE_SECRET_KEY not set, checkout is disabled")
	}

	// Initialize application services
	bookingService := application.NewBookingService(
		bookingRepo,
		listingRepo,
		userRepo,
		bookingDomain.NewNightlyPricingStrategy(),
		publisher,
		log,
	)
	listingService := application.NewListingService(listingRepo, log)
	reviewService := application.NewReviewService(reviewRepo, listingRepo, bookingRepo, userRepo, publisher, log)
	authService := application.NewAuthService(userRepo, jwtManager, log)
	paymentService := application.NewPaymentService(bookingRepo, listingRepo, gateway, log)
	adminService := application.NewAdminService(userRepo, listingRepo, bookingRepo, reviewRepo)

	// Start the booking event consumer in a goroutine
	if cfg.KafkaConfig.Enabled() {
		groupID := cfg.KafkaConfig.GroupPrefix + "host-notifications"
		bookingConsumer := rentalEvents.NewBookingEventConsumer(cfg.KafkaConfig.Brokers, groupID, userRepo, log)
		defer func() { _ = bookingConsumer.Close() }()

		go func() {
			log.Info("starting booking event consumer")
			if err := bookingConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("booking event consumer error", zap.Error(err))
			}
		}()
	}

	// Rate limiters share one Redis; without it every request is admitted.
	var redisClient *redis.Client
	if cfg.RedisConfig.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Addr,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		})
		defer func() { _ = redisClient.Close() }()
	} else {
		log.Warn("REDIS_ADDR not set, rate limiting is disabled")
	}
	apiLimiter := ratelimit.New(redisClient, "rl:api", cfg.APIRateLimit.Max, cfg.APIRateLimit.Window)
	authLimiter := ratelimit.New(redisClient, "rl:auth", cfg.AuthRateLimit.Max, cfg.AuthRateLimit.Window)

	if err := handler.RegisterValidators(); err != nil {
		log.Fatal("failed to register validators", zap.Error(err))
	}

	// Setup Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.ClientOrigin))
	router.Use(middleware.SecurityHeadersMiddleware())
	router.NoRoute(middleware.NotFoundHandler)

	api := router.Group("/api")
	api.Use(middleware.RateLimit(apiLimiter, "Too many requests from this IP, please try again later.", log))

	// Register health check routes
	health.NewHandler(db, serviceName).RegisterRoutes(router, api)

	// Register routes
	handler.NewAuthHandler(authService).RegisterRoutes(api, jwtManager,
		middleware.RateLimit(authLimiter, "Too many login/register attempts from this IP, please try again later.", log))
	handler.NewListingHandler(listingService).RegisterRoutes(api, jwtManager)
	handler.NewBookingHandler(bookingService).RegisterRoutes(api, jwtManager)
	handler.NewReviewHandler(reviewService).RegisterRoutes(api, jwtManager)
	handler.NewPaymentHandler(paymentService).RegisterRoutes(api, jwtManager)
	handler.NewAdminHandler(bookingService, adminService).RegisterRoutes(api, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      otelhttp.NewHandler(router, serviceName),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("failed to flush traces", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}
