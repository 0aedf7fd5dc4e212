// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unclebandit/customers-service/internal/config"
	"github.com/unclebandit/customers-service/internal/controller"
	"github.com/unclebandit/customers-service/internal/db"
	"github.com/unclebandit/customers-service/internal/events"
	"github.com/unclebandit/customers-service/internal/handler"
	"github.com/unclebandit/customers-service/internal/middleware"
	"github.com/unclebandit/customers-service/internal/repository"
	"github.com/unclebandit/customers-service/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Init DB
	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to store", zap.Error(err))
	}
	defer conn.Close()

	if err := db.EnsureSchema(conn); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}
	log.Printf("✅ Connected to database (%s)", conn.DriverName())

	publisher := initPublisher(cfg, logger)
	defer publisher.Close()

	customerRepo := &repository.CustomerRepository{DB: conn}

	customerService := &service.CustomerService{
		Repo:   customerRepo,
		Events: publisher,
		Logger: logger,
	}

	customerController := &controller.CustomerController{
		Service: customerService,
		Logger:  logger,
	}

	statusHandler := &handler.StatusHandler{
		DB:     conn,
		Logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(middleware.Logging(logger))

	// Service routes
	r.Get("/", statusHandler.Index)
	r.Get("/health", statusHandler.Health)
	r.Handle("/metrics", promhttp.Handler())

	// Customer routes
	customerController.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server running on %s", cfg.Address())
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatal("server error", zap.Error(err))
	case sig := <-shutdown:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}

	logger.Info("server stopped")
}

// initLogger initializes a zap logger with the specified log level.
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	zapConfig := zap.Config{
		Level:       zap.NewAtomicLevelAt(zapLevel),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding: "json",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "timestamp",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "message",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapConfig.Build()
}

// initPublisher wires event publishing when a broker is configured. The
// service is fully functional without one.
func initPublisher(cfg *config.Config, logger *zap.Logger) events.Publisher {
	if cfg.EventsURL == "" {
		logger.Info("event publishing disabled, AMQP_URL not set")
		return &events.NoopPublisher{}
	}

	publisher, err := events.NewAMQPPublisher(cfg.EventsURL)
	if err != nil {
		logger.Fatal("failed to connect to event broker", zap.Error(err))
	}
	logger.Info("event publishing enabled", zap.String("queue", events.QueueName))
	return publisher
}
