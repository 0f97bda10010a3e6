package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jusunglee/transit-router/internal/models"
	"github.com/jusunglee/transit-router/internal/planner"
	"github.com/jusunglee/transit-router/internal/predictor"
	"github.com/jusunglee/transit-router/internal/routeerr"
	"github.com/jusunglee/transit-router/internal/store"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		cost     float64
		expected models.Duration
	}{
		{5, models.Duration{Horas: 0, Minutos: 5}},
		{59.99, models.Duration{Horas: 0, Minutos: 59}},
		{60, models.Duration{Horas: 1, Minutos: 0}},
		{125.7, models.Duration{Horas: 2, Minutos: 5}},
		{1440, models.Duration{Horas: 24, Minutos: 0}},
	}

	for _, tt := range tests {
		got := Split(tt.cost)
		assert.Equal(t, tt.expected, got, "Split(%v)", tt.cost)
		assert.Equal(t, int(math.Floor(tt.cost)), got.Minutes(), "round trip for %v", tt.cost)
	}
}

func newRegistry(t *testing.T) *store.Registry {
	t.Helper()
	r, err := store.NewRegistry([]models.Station{
		{ID: "A", Lines: []string{"L1"}},
		{ID: "B", Lines: []string{"L1"}},
		{ID: "C", Lines: []string{"L1", "L2"}},
	})
	require.NoError(t, err)
	return r
}

func TestRoute(t *testing.T) {
	path := planner.Path{
		Stations: []string{"A", "B", "C"},
		Costs:    []float64{10, 10},
	}

	result, err := Route(newRegistry(t), "A", "C", path)
	require.NoError(t, err)

	assert.Equal(t, "A", result.Origen)
	assert.Equal(t, "C", result.Destino)
	assert.Equal(t, []string{"A", "B", "C"}, result.Ruta)
	assert.Equal(t, models.Duration{Horas: 0, Minutos: 20}, result.TiempoTotal)
	assert.Equal(t, []models.Duration{{Minutos: 10}, {Minutos: 10}}, result.TiemposTramos)
	require.Len(t, result.DetallesEstaciones, 3)
	assert.Equal(t, []string{"L1", "L2"}, result.DetallesEstaciones[2].Lines)
}

func TestRouteTotalIsSplitOnce(t *testing.T) {
	path := planner.Path{
		Stations: []string{"A", "B", "C"},
		Costs:    []float64{30.6, 30.6},
	}

	result, err := Route(newRegistry(t), "A", "C", path)
	require.NoError(t, err)

	assert.Equal(t, models.Duration{Horas: 1, Minutos: 1}, result.TiempoTotal)
	assert.Equal(t, []models.Duration{{Minutos: 30}, {Minutos: 30}}, result.TiemposTramos)
}

func TestRouteSingleStation(t *testing.T) {
	result, err := Route(newRegistry(t), "B", "B", planner.Path{Stations: []string{"B"}})
	require.NoError(t, err)

	assert.Equal(t, models.Duration{}, result.TiempoTotal)
	assert.Empty(t, result.TiemposTramos)
	assert.Len(t, result.DetallesEstaciones, 1)
}

func TestRouteErrors(t *testing.T) {
	_, err := Route(newRegistry(t), "A", "Z", planner.Path{Stations: []string{"A", "Z"}, Costs: []float64{5}})
	assert.ErrorIs(t, err, routeerr.ErrUnknownStation)

	_, err = Route(newRegistry(t), "A", "B", planner.Path{Stations: []string{"A", "B"}})
	assert.ErrorIs(t, err, routeerr.ErrData)
}

func TestRouteRejectsOversizedTotal(t *testing.T) {
	path := planner.Path{
		Stations: []string{"A", "B", "C"},
		Costs:    []float64{predictor.MaxCost, predictor.MaxCost},
	}

	_, err := Route(newRegistry(t), "A", "C", path)
	assert.ErrorIs(t, err, routeerr.ErrPredictor)
	assert.ErrorIs(t, err, predictor.ErrInvalidCost)
}
