// Package predictor defines the per-edge cost predictor consumed by the
// route planner, with a few in-process implementations and an HTTP client
// for an external model service.
package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// Features describes one edge to the predictor
type Features struct {
	Distance        float64 `json:"distancia"`
	NominalTime     float64 `json:"tiempo"`
	OriginLineCount int     `json:"lineas_origen"`
}

// Predictor returns a raw travel cost for an edge. The planner clamps the
// result to its floor, so implementations may return any real number up
// to MaxCost.
// Implementations must be safe for concurrent use.
type Predictor interface {
	Predict(ctx context.Context, f Features) (float64, error)
}

// MaxCost is the largest cost accepted from a predictor. Larger values
// would overflow the whole-minute conversion of route totals.
const MaxCost = float64(math.MaxInt64 / 2)

// ErrInvalidCost is returned by Validate for NaN, infinite or oversized costs
var ErrInvalidCost = errors.New("invalid predicted cost")

// Validate rejects values that cannot be used as an edge weight
func Validate(cost float64) error {
	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost > MaxCost {
		return fmt.Errorf("%w: %v", ErrInvalidCost, cost)
	}
	return nil
}

// Func adapts a plain function to Predictor
type Func func(ctx context.Context, f Features) (float64, error)

// Predict calls fn
func (fn Func) Predict(ctx context.Context, f Features) (float64, error) {
	return fn(ctx, f)
}

// NominalTime predicts the rule-adjusted nominal time unchanged
type NominalTime struct{}

// Predict returns f.NominalTime
func (NominalTime) Predict(_ context.Context, f Features) (float64, error) {
	return f.NominalTime, nil
}

// Constant predicts the same cost for every edge
type Constant float64

// Predict returns c
func (c Constant) Predict(context.Context, Features) (float64, error) {
	return float64(c), nil
}

// Linear evaluates a pre-fitted linear model over the edge features.
type Linear struct {
	Intercept     float64 `json:"intercept"`
	DistanceCoef  float64 `json:"distance"`
	TimeCoef      float64 `json:"time"`
	LineCountCoef float64 `json:"line_count"`
}

// Predict returns the linear combination of the features
func (l Linear) Predict(_ context.Context, f Features) (float64, error) {
	return l.Intercept +
		l.DistanceCoef*f.Distance +
		l.TimeCoef*f.NominalTime +
		l.LineCountCoef*float64(f.OriginLineCount), nil
}

// LoadLinear reads Linear coefficients from a JSON file
func LoadLinear(path string) (Linear, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Linear{}, fmt.Errorf("read model: %w", err)
	}
	var l Linear
	if err := json.Unmarshal(data, &l); err != nil {
		return Linear{}, fmt.Errorf("decode model: %w", err)
	}
	return l, nil
}
