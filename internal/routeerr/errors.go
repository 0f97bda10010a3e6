// Package routeerr defines the error kinds surfaced by the routing engine.
//
// Construction-time problems wrap ErrData and abort building the engine.
// The remaining kinds are scoped to a single route query.
package routeerr

import (
	"errors"
	"fmt"
)

var (
	// ErrData reports malformed network input.
	ErrData = errors.New("invalid network data")

	// ErrUnknownStation reports a query naming a station absent from the registry.
	ErrUnknownStation = errors.New("unknown station")

	// ErrRouteNotFound reports that no path joins origin and destination.
	ErrRouteNotFound = errors.New("route not found")

	// ErrPredictor reports a failed or invalid cost prediction.
	ErrPredictor = errors.New("cost predictor failure")
)

// Data wraps ErrData with a formatted reason.
func Data(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrData, fmt.Sprintf(format, args...))
}

// UnknownStation wraps ErrUnknownStation with the offending id.
func UnknownStation(id string) error {
	return fmt.Errorf("%w: %q", ErrUnknownStation, id)
}

// RouteNotFound wraps ErrRouteNotFound with the queried pair.
func RouteNotFound(origin, destination string) error {
	return fmt.Errorf("%w: %s -> %s", ErrRouteNotFound, origin, destination)
}

// Predictor wraps ErrPredictor for the edge origin -> destination. cause may be nil.
func Predictor(origin, destination string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: edge %s -> %s", ErrPredictor, origin, destination)
	}
	return fmt.Errorf("%w: edge %s -> %s: %w", ErrPredictor, origin, destination, cause)
}

// IsQueryError reports whether err is scoped to a single query rather than
// the engine as a whole.
func IsQueryError(err error) bool {
	return errors.Is(err, ErrUnknownStation) ||
		errors.Is(err, ErrRouteNotFound) ||
		errors.Is(err, ErrPredictor)
}
