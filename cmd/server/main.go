package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/driveloop/service-rental/internal/application"
	"github.com/driveloop/service-rental/internal/config"
	bookingDomain "github.com/driveloop/service-rental/internal/domain/booking"
	bookingEvents "github.com/driveloop/service-rental/internal/events"
	"github.com/driveloop/service-rental/internal/handler"
	"github.com/driveloop/service-rental/internal/payments"
	"github.com/driveloop/service-rental/internal/repository"
	"github.com/driveloop/service-rental/pkg/auth"
	"github.com/driveloop/service-rental/pkg/database"
	"github.com/driveloop/service-rental/pkg/health"
	"github.com/driveloop/service-rental/pkg/kafka"
	"github.com/driveloop/service-rental/pkg/logger"
	"github.com/driveloop/service-rental/pkg/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-rental")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-rental",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		err := db.AutoMigrate(
			&repository.UserModel{},
			&repository.VehicleModel{},
			&repository.LocationModel{},
			&repository.BookingModel{},
			&repository.PaymentModel{},
		)
		if err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		dbURL := dbConfig.DatabaseURL()
		if err := database.RunMigrations(dbURL, "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		15*time.Minute,
		7*24*time.Hour,
	)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories and collaborators
	bookingRepo := repository.NewGormBookingRepository(db)
	userDirectory := repository.NewGormUserDirectory(db)
	vehicleCatalog := repository.NewGormVehicleCatalog(db)
	locationDirectory := repository.NewGormLocationDirectory(db)
	refundProcessor := payments.NewProviderRefundProcessor(log)

	// Initialize pricing strategy
	pricingStrategy := bookingDomain.NewStandardPricingStrategy()

	// Initialize application service
	bookingService := application.NewBookingService(
		bookingRepo,
		userDirectory,
		vehicleCatalog,
		locationDirectory,
		refundProcessor,
		pricingStrategy,
		kafkaProducer,
		log,
	)

	// Initialize and start payment event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + "rental-service"
	paymentConsumer := bookingEvents.NewPaymentEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		bookingService,
		log,
	)
	defer func() { _ = paymentConsumer.Close() }()

	go func() {
		log.Info("starting payment event consumer")
		if err := paymentConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("payment event consumer error", zap.Error(err))
		}
	}()

	// Sweep overdue active bookings on an interval
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := bookingService.SweepOverdue(ctx); err != nil {
					log.Error("overdue sweep failed", zap.Error(err))
				}
			}
		}
	}()

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	adminBookingHandler := handler.NewAdminBookingHandler(bookingService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-rental")
	healthHandler.RegisterRoutes(router)

	// Register routes
	bookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	adminBookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-rental...")

	// Cancel the consumer and sweep goroutines
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-rental stopped")
}
