// Package export writes a drawing pad document out as an image or a PDF.
package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"MyDrawPad/internal/state"
)

// PDF writes doc as a single page of width x height points. Strokes are
// emitted as vector paths in drawing order.
func PDF(w io.Writer, doc state.Document, width, height int) error {
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: float64(width), Ht: float64(height)},
	})
	p.SetAutoPageBreak(false, 0)
	p.SetMargins(0, 0, 0)
	p.AddPage()

	r, g, b := channels(doc.Background, state.DefaultBackground)
	p.SetFillColor(r, g, b)
	p.Rect(0, 0, float64(width), float64(height), "F")

	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")
	for _, st := range doc.Strokes {
		if len(st.Points) == 0 {
			continue
		}
		r, g, b := channels(st.Color, state.DefaultInk)
		p.SetAlpha(state.ClampOpacity(st.Opacity), "Normal")

		if len(st.Points) == 1 {
			p.SetFillColor(r, g, b)
			p.Circle(st.Points[0].X, st.Points[0].Y, st.Width/2, "F")
		} else {
			p.SetDrawColor(r, g, b)
			p.SetLineWidth(st.Width)
			p.MoveTo(st.Points[0].X, st.Points[0].Y)
			for _, pt := range st.Points[1:] {
				p.LineTo(pt.X, pt.Y)
			}
			p.DrawPath("D")
		}
		p.SetAlpha(1, "Normal")
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}
	return nil
}

func channels(hex, fallback string) (int, int, int) {
	r, g, b, ok := state.ParseColor(hex)
	if !ok {
		r, g, b, _ = state.ParseColor(fallback)
	}
	return int(r), int(g), int(b)
}
