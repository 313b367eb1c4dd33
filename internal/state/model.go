package state

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultBackground is the surface color of a fresh document.
const DefaultBackground = "#FFFFFF"

// StrokeID identifies a stroke within a document.
type StrokeID string

// Point is a position in surface coordinates.
type Point struct{ X, Y float64 }

// MarshalJSON encodes the point as a two-element array.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes a point from a two-element array.
func (p *Point) UnmarshalJSON(data []byte) error {
	var xy []float64
	if err := json.Unmarshal(data, &xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("point: want 2 coordinates, got %d", len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// Stroke is one continuous freehand line.
type Stroke struct {
	ID      StrokeID `json:"id,omitempty"`
	Color   string   `json:"color"`
	Width   float64  `json:"lineWidth"`
	Opacity float64  `json:"opacity"`
	Points  []Point  `json:"points"`
}

func (s Stroke) clone() Stroke {
	c := s
	c.Points = append([]Point(nil), s.Points...)
	return c
}

// Document is the full drawable state.
type Document struct {
	Background string   `json:"background"`
	Strokes    []Stroke `json:"strokes"`
}

// NewDocument returns an empty document with the default background.
func NewDocument() Document {
	return Document{Background: DefaultBackground, Strokes: []Stroke{}}
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	c := Document{Background: d.Background, Strokes: make([]Stroke, len(d.Strokes))}
	for i, s := range d.Strokes {
		c.Strokes[i] = s.clone()
	}
	return c
}

// NormalizeColor returns hex as an upper-case "#RRGGBB" string.
// Short "#RGB" forms are expanded. ok is false if hex is not a color.
func NormalizeColor(hex string) (string, bool) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return "", false
	}
	for i := 0; i < len(h); i++ {
		c := h[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return "", false
		}
	}
	return "#" + strings.ToUpper(h), true
}

// ParseColor splits a normalised color into 8-bit channels.
func ParseColor(hex string) (r, g, b uint8, ok bool) {
	h, ok := NormalizeColor(hex)
	if !ok {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(h[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}
