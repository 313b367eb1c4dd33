package state

import (
	"fmt"
	"math"
)

const (
	// DefaultInk is the pen and brush color.
	DefaultInk = "#000000"
	// MinLineWidth is the thinnest line the pad draws.
	MinLineWidth = 1.0
)

// DrawMode is the color, width and opacity applied to the next stroke.
type DrawMode struct {
	Color   string
	Width   float64
	Opacity float64
}

// Preset is a named draw mode configuration.
type Preset int

const (
	PresetPen Preset = iota
	PresetBrush
	PresetEraser
)

func (p Preset) String() string {
	switch p {
	case PresetPen:
		return "pen"
	case PresetBrush:
		return "brush"
	case PresetEraser:
		return "eraser"
	}
	return fmt.Sprintf("Preset(%d)", int(p))
}

// DefaultMode is the pen preset on a default background.
func DefaultMode(maxWidth float64) DrawMode {
	return PresetPen.Mode(maxWidth, DefaultBackground)
}

// Mode returns the draw mode for p. The eraser paints with background.
func (p Preset) Mode(maxWidth float64, background string) DrawMode {
	switch p {
	case PresetBrush:
		return DrawMode{Color: DefaultInk, Width: fractionOf(maxWidth, 0.8), Opacity: 0.8}
	case PresetEraser:
		bg, ok := NormalizeColor(background)
		if !ok {
			bg = DefaultBackground
		}
		return DrawMode{Color: bg, Width: fractionOf(maxWidth, 0.75), Opacity: 1}
	default:
		return DrawMode{Color: DefaultInk, Width: fractionOf(maxWidth, 0.1), Opacity: 1}
	}
}

func fractionOf(maxWidth, f float64) float64 {
	return ClampWidth(math.Ceil(maxWidth*f), maxWidth)
}

// ClampWidth bounds w to [MinLineWidth, max]. NaN maps to MinLineWidth.
// A max below MinLineWidth leaves the upper end open.
func ClampWidth(w, max float64) float64 {
	if math.IsNaN(w) || w < MinLineWidth {
		return MinLineWidth
	}
	if max >= MinLineWidth && w > max {
		return max
	}
	return w
}

// ClampOpacity bounds o to [0, 1]. NaN maps to fully opaque.
func ClampOpacity(o float64) float64 {
	switch {
	case math.IsNaN(o):
		return 1
	case o < 0:
		return 0
	case o > 1:
		return 1
	}
	return o
}

func positiveWidth(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return MinLineWidth
	}
	return w
}
