package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var errNoPoints = errors.New("stroke has no points")

// Serialize encodes d as JSON. Colors are written as given; Deserialize
// normalises them, so only a normalised document round-trips exactly.
func Serialize(d Document) ([]byte, error) {
	if d.Strokes == nil {
		d.Strokes = []Stroke{}
	}
	return json.Marshal(d)
}

// Deserialize decodes a document. Malformed input yields NewDocument.
func Deserialize(data []byte) Document {
	doc, _, err := Decode(data)
	if err != nil {
		return NewDocument()
	}
	return doc
}

// Decode parses data as a document. Besides the object form written by
// Serialize it accepts a bare stroke array, in which case hasBackground is
// false and the default background is filled in.
// Strokes without an ID get a fresh one.
func Decode(data []byte) (doc Document, hasBackground bool, err error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return NewDocument(), false, errors.New("decode: empty document")
	}

	if trimmed[0] == '[' {
		var legacy []legacyStroke
		if err := decodeStrict(trimmed, &legacy); err != nil {
			return NewDocument(), false, fmt.Errorf("decode strokes: %w", err)
		}
		doc = Document{Background: DefaultBackground, Strokes: make([]Stroke, len(legacy))}
		for i, l := range legacy {
			doc.Strokes[i] = Stroke{
				ID:      l.ID,
				Color:   l.Color,
				Width:   float64(l.Width),
				Opacity: float64(l.Opacity),
				Points:  l.Points,
			}
		}
	} else {
		var raw struct {
			Background *string  `json:"background"`
			Strokes    []Stroke `json:"strokes"`
		}
		if err := decodeStrict(trimmed, &raw); err != nil {
			return NewDocument(), false, fmt.Errorf("decode document: %w", err)
		}
		doc = Document{Background: DefaultBackground, Strokes: raw.Strokes}
		if raw.Background != nil {
			bg, ok := NormalizeColor(*raw.Background)
			if !ok {
				return NewDocument(), false, fmt.Errorf("decode document: bad background %q", *raw.Background)
			}
			doc.Background = bg
			hasBackground = true
		}
	}

	if doc.Strokes == nil {
		doc.Strokes = []Stroke{}
	}
	for i := range doc.Strokes {
		if err := sanitize(&doc.Strokes[i]); err != nil {
			return NewDocument(), false, fmt.Errorf("decode stroke %d: %w", i, err)
		}
	}
	return doc, hasBackground, nil
}

// legacyStroke is a stroke as the browser version of the pad stored it.
// Width and opacity were copied from form inputs, so they are usually strings.
type legacyStroke struct {
	ID      StrokeID  `json:"id,omitempty"`
	Color   string    `json:"color"`
	Width   flexFloat `json:"lineWidth"`
	Opacity flexFloat `json:"opacity"`
	Points  []Point   `json:"points"`
}

// flexFloat accepts a JSON number or a string holding one.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("want number or numeric string, got %s", data)
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	*f = flexFloat(n)
	return nil
}

func decodeStrict(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&json.RawMessage{}); err != io.EOF {
		return errors.New("trailing data")
	}
	return nil
}

func sanitize(s *Stroke) error {
	if len(s.Points) == 0 {
		return errNoPoints
	}
	c, ok := NormalizeColor(s.Color)
	if !ok {
		return fmt.Errorf("bad color %q", s.Color)
	}
	s.Color = c
	s.Width = positiveWidth(s.Width)
	s.Opacity = ClampOpacity(s.Opacity)
	if s.ID == "" {
		s.ID = NewStrokeID()
	}
	return nil
}
