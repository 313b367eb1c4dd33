package export

import (
	"fmt"
	"io"

	"MyDrawPad/internal/render"
	"MyDrawPad/internal/state"
)

// Default file names offered when saving an export.
const (
	PNGFileName = "myImage.png"
	PDFFileName = "myImage.pdf"
)

// PNG renders doc at width x height and writes it to w as a PNG image.
func PNG(w io.Writer, doc state.Document, width, height int) error {
	dc := render.NewCanvas(width, height)
	defer dc.Close()

	if err := render.Render(dc, doc); err != nil {
		return fmt.Errorf("export png: %w", err)
	}
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("export png: %w", err)
	}
	return nil
}
