package models

import (
	"encoding/json"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// DefaultTime is the nominal travel time of a connection that omits one
	DefaultTime = 10.0
	// DefaultDistance is the distance of a connection that omits one
	DefaultDistance = 1.0
	// UnknownLine labels connections that do not name their line
	UnknownLine = "desconocida"
)

// Station represents a transit station and the lines serving it
type Station struct {
	ID       string
	Lines    []string
	Metadata *structpb.Struct
}

// LineCount returns the number of lines serving the station
func (s Station) LineCount() int {
	return len(s.Lines)
}

// Clone returns a deep copy so callers cannot mutate registry state
func (s Station) Clone() Station {
	c := Station{
		ID:    s.ID,
		Lines: append([]string(nil), s.Lines...),
	}
	if s.Metadata != nil {
		c.Metadata = proto.Clone(s.Metadata).(*structpb.Struct)
	}
	return c
}

// MarshalJSON flattens metadata next to id and lineas, reproducing the
// station record as it appeared in the input document.
func (s Station) MarshalJSON() ([]byte, error) {
	record := map[string]any{}
	if s.Metadata != nil {
		record = s.Metadata.AsMap()
	}
	record["id"] = s.ID
	lines := s.Lines
	if lines == nil {
		lines = []string{}
	}
	record["lineas"] = lines
	return json.Marshal(record)
}

// Connection represents a raw directed link between two stations
type Connection struct {
	Origin      string
	Destination string
	Time        float64
	Distance    float64
	Line        string
}

// Rule is an operational rule applied while building the graph.
// It is implemented only by MaintenanceClosure and CongestionFactor.
type Rule interface {
	isRule()
}

// MaintenanceClosure removes the directed edge Origin -> Destination
type MaintenanceClosure struct {
	Origin      string
	Destination string
}

// CongestionFactor multiplies the travel time of every edge on Line
type CongestionFactor struct {
	Line   string
	Factor float64
}

func (MaintenanceClosure) isRule() {}
func (CongestionFactor) isRule()   {}

// Duration is a travel time split into whole hours and minutes
type Duration struct {
	Horas   int `json:"horas"`
	Minutos int `json:"minutos"`
}

// Minutes returns the duration expressed in minutes
func (d Duration) Minutes() int {
	return d.Horas*60 + d.Minutos
}

// RouteResult is the outcome of one origin-destination query
type RouteResult struct {
	Origen             string     `json:"origen"`
	Destino            string     `json:"destino"`
	Ruta               []string   `json:"ruta"`
	TiempoTotal        Duration   `json:"tiempo_total"`
	TiemposTramos      []Duration `json:"tiempos_tramos"`
	DetallesEstaciones []Station  `json:"detalles_estaciones"`
}
