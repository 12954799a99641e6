package factory

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is ISO-8601 in UTC with microsecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// Timestamp is a point in time rendered with TimestampLayout.
type Timestamp struct{ time.Time }

func NewTimestamp(t time.Time) Timestamp { return Timestamp{t.UTC()} }

func (t Timestamp) String() string { return t.UTC().Format(TimestampLayout) }

func (t Timestamp) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return fmt.Errorf("timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// Color is a piece color accepted on orders.
type Color string

const (
	ColorRed   Color = "red"
	ColorBlue  Color = "blue"
	ColorWhite Color = "white"
)

// AllowedColors is fixed for the process lifetime.
func AllowedColors() []Color { return []Color{ColorRed, ColorBlue, ColorWhite} }

// ParseColor reports whether s names an allowed color.
func ParseColor(s string) (Color, bool) {
	for _, c := range AllowedColors() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Location is a high-bay warehouse slot.
type Location string

// Locations is the fixed 3x3 slot grid, rows a..c, columns 1..3.
var Locations = [9]Location{"a1", "a2", "a3", "b1", "b2", "b3", "c1", "c2", "c3"}

// ParseLocation reports whether s names one of Locations.
func ParseLocation(s string) (Location, bool) {
	for _, l := range Locations {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// OrderState is the single current order. Unset fields encode as null.
type OrderState struct {
	Color     *Color     `json:"color"`
	Status    any        `json:"status"`
	Timestamp *Timestamp `json:"timestamp"`
}

// StockMap maps every Location to the piece stored there, nil when empty.
type StockMap map[Location]any

// Filled counts slots holding something other than null or "".
func (m StockMap) Filled() int {
	n := 0
	for _, v := range m {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		n++
	}
	return n
}

func (m StockMap) clone() StockMap {
	out := make(StockMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// NfcLogEntry records one NFC reader event.
type NfcLogEntry struct {
	Timestamp Timestamp `json:"timestamp"`
	PieceID   any       `json:"pieceID"`
	State     any       `json:"state"`
}
