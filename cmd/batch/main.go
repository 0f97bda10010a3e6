package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/jusunglee/transit-router/internal/dataset"
	"github.com/jusunglee/transit-router/internal/logging"
	"github.com/jusunglee/transit-router/pkg/router"
)

func main() {
	_ = godotenv.Load()

	defaults := router.ConfigFromEnv()
	var (
		dataFile = flag.String("data", defaults.DataFile, "Network JSON file")
		output   = flag.String("out", "Resultados.json", "Output file for computed routes")
		workers  = flag.Int("workers", defaults.Workers, "Concurrent route queries")
		logLevel = flag.String("log-level", "info", "Log level")
	)
	flag.Parse()

	logger := logging.New(*logLevel, "text", os.Stderr)
	start := time.Now()

	ds, err := dataset.Load(*dataFile)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load dataset")
	}

	pred, err := defaults.Predictor()
	if err != nil {
		logger.WithError(err).Fatal("Failed to configure predictor")
	}

	engine, err := router.New(ds, pred, router.WithLogger(logger), router.WithConcurrency(defaults.Concurrency))
	if err != nil {
		logger.WithError(err).Fatal("Failed to build network")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := engine.ComputeAll(ctx, *workers)
	if err != nil {
		logger.WithError(err).Fatal("Batch aborted")
	}

	for _, f := range report.Fallos {
		logger.WithFields(logrus.Fields{
			"origin":      f.Origen,
			"destination": f.Destino,
		}).Warn(f.Error)
	}

	data, err := json.MarshalIndent(report.Resultados, "", "  ")
	if err != nil {
		logger.WithError(err).Fatal("Failed to encode results")
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		logger.WithError(err).Fatal("Failed to write results")
	}

	logger.WithFields(logrus.Fields{
		"routes":   len(report.Resultados),
		"failures": len(report.Fallos),
		"output":   *output,
		"elapsed":  time.Since(start).Round(time.Millisecond).String(),
	}).Info("Batch completed")
}
