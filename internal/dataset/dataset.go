// Package dataset decodes the network document (stations, connections and
// operational rules) into engine models.
package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jusunglee/transit-router/internal/models"
	"github.com/jusunglee/transit-router/internal/routeerr"
)

// Rule type tags used in the document
const (
	RuleMaintenance = "mantenimiento_tramo"
	RuleCongestion  = "congestion"
)

// Dataset is a decoded network document
type Dataset struct {
	Stations    []models.Station
	Connections []models.Connection
	Rules       []models.Rule
}

type document struct {
	Estaciones  []map[string]any `json:"estaciones"`
	Stations    []map[string]any `json:"stations"`
	Conexiones  []rawConnection  `json:"conexiones"`
	Connections []rawConnection  `json:"connections"`
	Reglas      []rawRule        `json:"reglas"`
	Rules       []rawRule        `json:"rules"`
}

type rawConnection struct {
	Origen      string   `json:"origen"`
	Origin      string   `json:"origin"`
	Destino     string   `json:"destino"`
	Destination string   `json:"destination"`
	Tiempo      *float64 `json:"tiempo"`
	Distancia   *float64 `json:"distancia"`
	Linea       string   `json:"linea"`
}

type rawRule struct {
	Tipo        string   `json:"tipo"`
	Origen      string   `json:"origen"`
	Origin      string   `json:"origin"`
	Destino     string   `json:"destino"`
	Destination string   `json:"destination"`
	Linea       string   `json:"linea"`
	Factor      *float64 `json:"factor"`
}

// Load reads and decodes the document at path
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses a network document. Connections default to time 10,
// distance 1 and line "desconocida"; congestion rules default to factor 1.
// Unknown rule types are rejected.
func Decode(r io.Reader) (*Dataset, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, routeerr.Data("decode document: %v", err)
	}

	ds := &Dataset{}

	for i, raw := range either(doc.Estaciones, doc.Stations) {
		station, err := decodeStation(raw)
		if err != nil {
			return nil, routeerr.Data("station %d: %v", i, err)
		}
		ds.Stations = append(ds.Stations, station)
	}

	for _, raw := range either(doc.Conexiones, doc.Connections) {
		ds.Connections = append(ds.Connections, raw.connection())
	}

	for i, raw := range either(doc.Reglas, doc.Rules) {
		rule, err := raw.rule()
		if err != nil {
			return nil, routeerr.Data("rule %d: %v", i, err)
		}
		ds.Rules = append(ds.Rules, rule)
	}

	return ds, nil
}

func either[T any](primary, alias []T) []T {
	if len(primary) > 0 {
		return primary
	}
	return alias
}

func pick(primary, alias string) string {
	if primary != "" {
		return primary
	}
	return alias
}

func (c rawConnection) connection() models.Connection {
	conn := models.Connection{
		Origin:      pick(c.Origen, c.Origin),
		Destination: pick(c.Destino, c.Destination),
		Time:        models.DefaultTime,
		Distance:    models.DefaultDistance,
		Line:        c.Linea,
	}
	if c.Tiempo != nil {
		conn.Time = *c.Tiempo
	}
	if c.Distancia != nil {
		conn.Distance = *c.Distancia
	}
	if conn.Line == "" {
		conn.Line = models.UnknownLine
	}
	return conn
}

func (r rawRule) rule() (models.Rule, error) {
	switch r.Tipo {
	case RuleMaintenance:
		return models.MaintenanceClosure{
			Origin:      pick(r.Origen, r.Origin),
			Destination: pick(r.Destino, r.Destination),
		}, nil
	case RuleCongestion:
		factor := 1.0
		if r.Factor != nil {
			factor = *r.Factor
		}
		return models.CongestionFactor{Line: r.Linea, Factor: factor}, nil
	default:
		return nil, fmt.Errorf("unknown rule type %q", r.Tipo)
	}
}

func decodeStation(raw map[string]any) (models.Station, error) {
	id, err := scalar(raw["id"])
	if err != nil {
		return models.Station{}, fmt.Errorf("id: %w", err)
	}

	linesKey := "lineas"
	if _, ok := raw[linesKey]; !ok {
		linesKey = "lines"
	}
	list, ok := raw[linesKey].([]any)
	if !ok || len(list) == 0 {
		return models.Station{}, fmt.Errorf("station %q needs a non-empty list of lines", id)
	}
	lines := make([]string, len(list))
	for i, v := range list {
		if lines[i], err = scalar(v); err != nil {
			return models.Station{}, fmt.Errorf("station %q line %d: %w", id, i, err)
		}
	}

	rest := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == "id" || k == linesKey {
			continue
		}
		rest[k] = v
	}
	metadata, err := structpb.NewStruct(rest)
	if err != nil {
		return models.Station{}, fmt.Errorf("station %q metadata: %w", id, err)
	}

	return models.Station{ID: id, Lines: lines, Metadata: metadata}, nil
}

func scalar(v any) (string, error) {
	switch x := v.(type) {
	case string:
		if x == "" {
			return "", fmt.Errorf("empty value")
		}
		return x, nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case nil:
		return "", fmt.Errorf("missing value")
	default:
		return "", fmt.Errorf("unsupported value %v", v)
	}
}
