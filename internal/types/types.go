package types

import (
	"encoding/hex"
	"strings"
	"time"
)

// Frame is one raw Mode-S frame as delivered by a Beast feed: the hex-encoded
// payload plus the capture timestamp assigned on arrival.
type Frame struct {
	Raw       string    `json:"raw"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// NewFrame builds a Frame from raw payload bytes.
func NewFrame(payload []byte, ts time.Time, source string) Frame {
	return Frame{
		Raw:       hex.EncodeToString(payload),
		Timestamp: ts,
		Source:    source,
	}
}

// Hex returns the canonical lowercase hex form of the payload.
func (f Frame) Hex() string {
	return strings.ToLower(strings.TrimSpace(f.Raw))
}

// Record is the decode result for one accepted frame. Fields are sparse: a key
// is present only when the corresponding decoder produced a value. Values are
// scalars (string, bool, int, float64, time.Time) or []any for multi-element
// results that the flattener expands later.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// AircraftState is the latest known state of one aircraft, maintained for the
// live-state cache. It is a projection of decoded records, not part of the
// persisted datasets.
type AircraftState struct {
	ICAO         string    `json:"icao"`
	Callsign     string    `json:"callsign,omitempty"`
	Altitude     float64   `json:"altitude,omitempty"`
	GroundSpeed  float64   `json:"ground_speed,omitempty"`
	Track        float64   `json:"track,omitempty"`
	VerticalRate float64   `json:"vertical_rate,omitempty"`
	Latitude     float64   `json:"latitude,omitempty"`
	Longitude    float64   `json:"longitude,omitempty"`
	PositionType string    `json:"position_type,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	SessionID    string    `json:"session_id"`
}

// Session describes one capture session.
type Session struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	RefLat    *float64  `json:"ref_lat,omitempty"`
	RefLon    *float64  `json:"ref_lon,omitempty"`
}
