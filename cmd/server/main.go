package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/jusunglee/transit-router/api/handlers"
	"github.com/jusunglee/transit-router/internal/logging"
	"github.com/jusunglee/transit-router/pkg/router"
)

func main() {
	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	defaults := router.ConfigFromEnv()
	var (
		port           = flag.String("port", envOr("PORT", "8080"), "Server port")
		dataFile       = flag.String("data", defaults.DataFile, "Network JSON file")
		updateInterval = flag.Duration("update-interval", defaults.UpdateInterval, "Dataset reload interval (0 disables)")
		predictorURL   = flag.String("predictor-url", defaults.PredictorURL, "Remote cost predictor endpoint")
		modelFile      = flag.String("model", defaults.ModelFile, "Linear model coefficients JSON file")
		concurrency    = flag.Int("concurrency", defaults.Concurrency, "Concurrent predictor calls per query")
		logLevel       = flag.String("log-level", envOr("LOG_LEVEL", "info"), "Log level")
		logFormat      = flag.String("log-format", envOr("LOG_FORMAT", "json"), "Log format (json or text)")
	)
	flag.Parse()

	logger := logging.New(*logLevel, *logFormat, os.Stdout)

	config := defaults
	config.DataFile = *dataFile
	config.UpdateInterval = *updateInterval
	config.PredictorURL = *predictorURL
	config.ModelFile = *modelFile
	config.Concurrency = *concurrency

	client, err := router.NewLocal(config, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load transit network")
	}
	defer client.Close()

	r := mux.NewRouter()
	h := handlers.NewHandler(client, logger)
	h.RegisterRoutes(r)

	r.Use(handlers.RequestID)
	r.Use(handlers.Logging(logger))
	r.Use(handlers.CORS)

	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithField("port", *port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
