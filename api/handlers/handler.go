package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/jusunglee/transit-router/internal/logging"
	"github.com/jusunglee/transit-router/internal/models"
	"github.com/jusunglee/transit-router/internal/routeerr"
	"github.com/jusunglee/transit-router/pkg/router"
)

// RequestIDHeader carries the per-request id
const RequestIDHeader = "X-Request-ID"

// Handler handles HTTP requests
type Handler struct {
	client router.Client
	logger logrus.FieldLogger
}

// NewHandler creates a new HTTP handler
func NewHandler(client router.Client, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{client: client, logger: logger}
}

// RegisterRoutes registers all routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.handleIndex).Methods("GET")
	r.HandleFunc("/route/{origin}/{destination}", h.handleRoute).Methods("GET")
	r.HandleFunc("/stations", h.handleStations).Methods("GET")
	r.HandleFunc("/lines", h.handleLines).Methods("GET")
	r.HandleFunc("/lines/{line}/stations", h.handleStationsByLine).Methods("GET")
}

// ResponseMetadata is shared by every successful response
type ResponseMetadata struct {
	Updated string `json:"updated,omitempty"`
}

// RouteResponse wraps a single route
type RouteResponse struct {
	Data models.RouteResult `json:"data"`
	ResponseMetadata
}

// StationsResponse wraps a list of stations
type StationsResponse struct {
	Data []models.Station `json:"data"`
	ResponseMetadata
}

// LinesResponse wraps the list of lines
type LinesResponse struct {
	Data []string `json:"data"`
	ResponseMetadata
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) getResponseMetadata() ResponseMetadata {
	var meta ResponseMetadata
	if updated := h.client.GetLastUpdate(); !updated.IsZero() {
		meta.Updated = updated.Format(time.RFC3339)
	}
	return meta
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"title":  "transit-router",
		"routes": "/route/{origin}/{destination}, /stations, /lines, /lines/{line}/stations",
	}
	h.writeJSON(w, response)
}

func (h *Handler) handleRoute(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	result, err := h.client.ComputeRoute(r.Context(), vars["origin"], vars["destination"])
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"origin":      vars["origin"],
			"destination": vars["destination"],
			"request_id":  w.Header().Get(RequestIDHeader),
		}).WithError(err).Info("route query failed")
		h.writeError(w, err.Error(), statusFor(err))
		return
	}

	h.writeJSON(w, RouteResponse{Data: result, ResponseMetadata: h.getResponseMetadata()})
}

func (h *Handler) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.client.GetStations()
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, StationsResponse{Data: stations, ResponseMetadata: h.getResponseMetadata()})
}

func (h *Handler) handleStationsByLine(w http.ResponseWriter, r *http.Request) {
	line := mux.Vars(r)["line"]

	stations, err := h.client.GetStationsByLine(line)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusNotFound)
		return
	}

	h.writeJSON(w, StationsResponse{Data: stations, ResponseMetadata: h.getResponseMetadata()})
}

func (h *Handler) handleLines(w http.ResponseWriter, r *http.Request) {
	lines, err := h.client.GetLines()
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, LinesResponse{Data: lines, ResponseMetadata: h.getResponseMetadata()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, routeerr.ErrUnknownStation):
		return http.StatusNotFound
	case errors.Is(err, routeerr.ErrRouteNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, routeerr.ErrPredictor):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.writeError(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// RequestID tags every request with an id, reusing the caller's when present
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// Logging logs method, path and latency of every request
func Logging(logger logrus.FieldLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.RequestURI,
				"duration":   time.Since(start).String(),
				"request_id": w.Header().Get(RequestIDHeader),
			}).Info("request handled")
		})
	}
}

// CORS allows read-only cross-origin access
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
