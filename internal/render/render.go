// Package render paints a drawing pad document onto a raster surface.
//
// Every call repaints the whole surface: background first, then each stroke
// in the order it was drawn.
package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gg"

	"MyDrawPad/internal/state"
)

// Surface is the subset of *gg.Context the renderer draws with.
type Surface interface {
	Clear()
	ClearWithColor(col gg.RGBA)
	SetLineWidth(width float64)
	SetLineCap(lineCap gg.LineCap)
	SetLineJoin(join gg.LineJoin)
	SetRGBA(r, g, b, a float64)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	DrawCircle(x, y, r float64)
	Stroke() error
	Fill() error
}

var _ Surface = (*gg.Context)(nil)

// NewCanvas returns a software-rasterised surface of the given size.
func NewCanvas(width, height int) *gg.Context {
	return gg.NewContext(width, height)
}

// Render repaints s with doc.
func Render(s Surface, doc state.Document) error {
	s.Clear()
	s.ClearWithColor(rgba(doc.Background, state.DefaultBackground, 1))
	s.SetLineCap(gg.LineCapRound)
	s.SetLineJoin(gg.LineJoinRound)

	var errs []error
	for i, st := range doc.Strokes {
		if err := drawStroke(s, st); err != nil {
			errs = append(errs, fmt.Errorf("stroke %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func drawStroke(s Surface, st state.Stroke) error {
	if len(st.Points) == 0 {
		return nil
	}
	c := rgba(st.Color, state.DefaultInk, state.ClampOpacity(st.Opacity))
	s.SetRGBA(c.R, c.G, c.B, c.A)
	// opacity belongs to this stroke only
	defer s.SetRGBA(c.R, c.G, c.B, 1)

	if len(st.Points) == 1 {
		// A round-capped path of zero length is a dot.
		p := st.Points[0]
		s.DrawCircle(p.X, p.Y, st.Width/2)
		return s.Fill()
	}

	s.SetLineWidth(st.Width)
	s.MoveTo(st.Points[0].X, st.Points[0].Y)
	for _, p := range st.Points[1:] {
		s.LineTo(p.X, p.Y)
	}
	return s.Stroke()
}

func rgba(hex, fallback string, alpha float64) gg.RGBA {
	r, g, b, ok := state.ParseColor(hex)
	if !ok {
		r, g, b, _ = state.ParseColor(fallback)
	}
	return gg.RGBA{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: alpha}
}

// Image renders doc onto a fresh width x height surface.
func Image(doc state.Document, width, height int) (image.Image, error) {
	dc := NewCanvas(width, height)
	defer dc.Close()
	if err := Render(dc, doc); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}
