package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/jusunglee/transit-router/internal/dataset"
	"github.com/jusunglee/transit-router/internal/logging"
	"github.com/jusunglee/transit-router/internal/routeerr"
	"github.com/jusunglee/transit-router/pkg/router"
)

func main() {
	_ = godotenv.Load()

	defaults := router.ConfigFromEnv()
	var (
		dataFile = flag.String("data", defaults.DataFile, "Network JSON file")
		from     = flag.String("from", "", "Origin station id")
		to       = flag.String("to", "", "Destination station id")
		line     = flag.String("line", "", "List the stations of a line instead of routing")
		timeout  = flag.Duration("timeout", 30*time.Second, "Query timeout")
	)
	flag.Parse()

	logger := logging.New(os.Getenv("LOG_LEVEL"), "text", os.Stderr)

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

	// Line listing mode
	if *line != "" {
		stations, err := engine.GetStationsByLine(*line)
		if err != nil {
			logger.WithError(err).WithField("line", *line).Fatal("Failed to get stations for line")
		}

		fmt.Printf("\nStations on line %s:\n", *line)
		for _, station := range stations {
			fmt.Printf("- %s (%d lines)\n", station.ID, station.LineCount())
		}
		return
	}

	if *from == "" || *to == "" {
		fmt.Fprintln(os.Stderr, "both -from and -to are required")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := engine.ComputeRoute(ctx, *from, *to)
	if err != nil {
		if errors.Is(err, routeerr.ErrRouteNotFound) {
			fmt.Printf("No route from %s to %s\n", *from, *to)
			os.Exit(1)
		}
		logger.WithError(err).Fatal("Route query failed")
	}

	fmt.Printf("\nRoute %s -> %s: %dh %02dm\n", result.Origen, result.Destino, result.TiempoTotal.Horas, result.TiempoTotal.Minutos)
	for i, segment := range result.TiemposTramos {
		fmt.Printf("  %s -> %s  %dh %02dm\n", result.Ruta[i], result.Ruta[i+1], segment.Horas, segment.Minutos)
	}
}
