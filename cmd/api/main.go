package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Raymond9734/customer-dashboard/internal/config"
	"github.com/Raymond9734/customer-dashboard/internal/db"
	"github.com/Raymond9734/customer-dashboard/internal/handler"
	"github.com/Raymond9734/customer-dashboard/internal/queue"
	"github.com/Raymond9734/customer-dashboard/internal/repository"
	"github.com/Raymond9734/customer-dashboard/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	logger.Info("starting customer dashboard API server")

	// Connect to database
	database, err := db.New(cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	logger.Info("connected to database")

	// Connect to Redis queue
	queueClient, err := queue.NewRedisClient(queue.RedisConfig{
		URL:       cfg.Queue.RedisURL,
		QueueName: cfg.Queue.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer queueClient.Close()

	logger.Info("connected to Redis queue")

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(database.DB)
	historyRepo := repository.NewServiceHistoryRepository(database.DB)
	activityRepo := repository.NewActivityRepository(database.DB)

	// Initialize services
	customerSvc := service.NewCustomerService(customerRepo, historyRepo, queueClient, logger)
	historySvc := service.NewServiceHistoryService(customerRepo, historyRepo, queueClient, logger)
	activitySvc := service.NewActivityService(customerRepo, activityRepo)

	// Initialize metrics
	metrics := handler.NewMetrics()
	metrics.Registerer().MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "customer_dashboard",
		Name:      "activity_queue_length",
		Help:      "Activity jobs waiting to be recorded",
	}, func() float64 {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		n, err := queueClient.QueueLength(ctx)
		if err != nil {
			return 0
		}
		return float64(n)
	}))

	// Setup router
	router := handler.NewRouter(handler.RouterConfig{
		Customers:      handler.NewCustomerHandler(customerSvc, activitySvc, logger),
		ServiceHistory: handler.NewServiceHistoryHandler(historySvc, logger),
		Health:         handler.NewHealthHandler(database, queueClient, logger),
		Metrics:        metrics,
		Logger:         logger,
		RateLimit:      cfg.API.RateLimit,
		RateWindow:     cfg.API.RateWindow,
		Production:     cfg.API.Production,
	})

	// Create server
	addr := fmt.Sprintf(":%d", cfg.API.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening", slog.String("addr", addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}

	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownGrace)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("server stopped gracefully")
	}
}
