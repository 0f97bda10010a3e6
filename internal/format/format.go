// Package format shapes a planned path into a RouteResult.
package format

import (
	"fmt"
	"math"

	"github.com/jusunglee/transit-router/internal/models"
	"github.com/jusunglee/transit-router/internal/planner"
	"github.com/jusunglee/transit-router/internal/predictor"
	"github.com/jusunglee/transit-router/internal/routeerr"
	"github.com/jusunglee/transit-router/internal/store"
)

// Split truncates cost to whole minutes and splits it into hours and minutes
func Split(cost float64) models.Duration {
	total := int(math.Floor(cost))
	return models.Duration{
		Horas:   total / 60,
		Minutos: total % 60,
	}
}

// Route builds the result for path. The total is the sum of the segment
// costs, split once; each segment is split on its own.
func Route(registry *store.Registry, origin, destination string, path planner.Path) (models.RouteResult, error) {
	if len(path.Stations) != len(path.Costs)+1 {
		return models.RouteResult{}, routeerr.Data("path has %d stations for %d segments", len(path.Stations), len(path.Costs))
	}

	total := 0.0
	segments := make([]models.Duration, len(path.Costs))
	for i, cost := range path.Costs {
		total += cost
		segments[i] = Split(cost)
	}
	if total > predictor.MaxCost {
		return models.RouteResult{}, routeerr.Predictor(origin, destination, fmt.Errorf("%w: route total %v", predictor.ErrInvalidCost, total))
	}

	details := make([]models.Station, len(path.Stations))
	for i, id := range path.Stations {
		station, err := registry.GetStation(id)
		if err != nil {
			return models.RouteResult{}, err
		}
		details[i] = station
	}

	return models.RouteResult{
		Origen:             origin,
		Destino:            destination,
		Ruta:               append([]string(nil), path.Stations...),
		TiempoTotal:        Split(total),
		TiemposTramos:      segments,
		DetallesEstaciones: details,
	}, nil
}
