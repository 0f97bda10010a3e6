package router

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jusunglee/transit-router/internal/logging"
	"github.com/jusunglee/transit-router/internal/predictor"
	"github.com/jusunglee/transit-router/internal/routeerr"
)

func writeNetwork(t *testing.T, path, body string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestLocalClient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datos.json")
	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	writeNetwork(t, path, abcNetwork, base)

	config := DefaultConfig()
	config.DataFile = path
	config.UpdateInterval = 10 * time.Millisecond

	client, err := NewLocal(config, logging.Discard())
	require.NoError(t, err)
	defer client.Close()

	result, err := client.ComputeRoute(context.Background(), "A", "C")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, result.Ruta)

	lines, err := client.GetLines()
	require.NoError(t, err)
	assert.Equal(t, []string{"L1"}, lines)

	t.Run("invalid update keeps previous engine", func(t *testing.T) {
		before := client.Engine()
		writeNetwork(t, path, `{"estaciones": [{"id": "A"}]}`, base.Add(time.Minute))
		time.Sleep(50 * time.Millisecond)
		assert.Same(t, before, client.Engine())
	})

	t.Run("valid update swaps engine", func(t *testing.T) {
		closed := `{
		  "estaciones": [{"id": "A", "lineas": ["L1"]}, {"id": "B", "lineas": ["L1"]}, {"id": "C", "lineas": ["L1"]}],
		  "conexiones": [{"origen": "A", "destino": "B"}, {"origen": "B", "destino": "C"}],
		  "reglas": [{"tipo": "mantenimiento_tramo", "origen": "A", "destino": "B"}]
		}`
		writeNetwork(t, path, closed, base.Add(2*time.Minute))

		assert.Eventually(t, func() bool {
			_, err := client.ComputeRoute(context.Background(), "A", "C")
			return errors.Is(err, routeerr.ErrRouteNotFound)
		}, time.Second, 10*time.Millisecond)
	})
}

func TestNewLocalFailsOnBadData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datos.json")
	writeNetwork(t, path, `{"reglas": [{"tipo": "desvio"}]}`, time.Now())

	config := DefaultConfig()
	config.DataFile = path

	_, err := NewLocal(config, nil)
	assert.ErrorIs(t, err, routeerr.ErrData)
}

func TestLocalClientCloseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datos.json")
	writeNetwork(t, path, abcNetwork, time.Now().Add(-time.Hour))

	config := DefaultConfig()
	config.DataFile = path
	config.UpdateInterval = 10 * time.Millisecond

	client, err := NewLocal(config, nil)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		client.Close()
		client.Close()
	})
}

func TestStaticClient(t *testing.T) {
	client := NewStatic(newEngine(t), 2)
	defer client.Close()

	report, err := client.ComputeAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Resultados, 3)

	result, err := client.ComputeRouteWith(context.Background(), predictor.Constant(30), "A", "B")
	require.NoError(t, err)
	assert.Equal(t, 30, result.TiempoTotal.Minutes())

	stations, err := client.GetStations()
	require.NoError(t, err)
	assert.Len(t, stations, 3)
	assert.False(t, client.GetLastUpdate().IsZero())
}

func TestConfigPredictor(t *testing.T) {
	config := DefaultConfig()

	pred, err := config.Predictor()
	require.NoError(t, err)
	assert.IsType(t, predictor.NominalTime{}, pred)

	config.ModelFile = filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(config.ModelFile, []byte(`{"intercept": 1}`), 0o644))
	pred, err = config.Predictor()
	require.NoError(t, err)
	assert.Equal(t, predictor.Linear{Intercept: 1}, pred)

	config.PredictorURL = "http://localhost:9000/predict"
	pred, err = config.Predictor()
	require.NoError(t, err)
	assert.IsType(t, &predictor.Remote{}, pred)
}
