package ui

import (
	"bytes"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/gogpu/gg"
	"github.com/sirupsen/logrus"

	"MyDrawPad/internal/render"
	"MyDrawPad/internal/session"
	"MyDrawPad/internal/state"
)

// BoardWidget shows the rendered drawing and turns pointer input into strokes.
type BoardWidget struct {
	widget.BaseWidget
	session *session.Session
	surface *gg.Context
	image   *canvas.Image
	width   int
	height  int
	log     logrus.FieldLogger

	// OnFrame receives a PNG of the surface after every change except
	// individual pointer moves.
	OnFrame func(png []byte)
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

// NewBoardWidget creates a board with a width x height drawing surface.
func NewBoardWidget(s *session.Session, width, height int, log logrus.FieldLogger) *BoardWidget {
	b := &BoardWidget{
		session: s,
		surface: render.NewCanvas(width, height),
		width:   width,
		height:  height,
		log:     log.WithField("component", "board"),
	}
	b.image = canvas.NewImageFromImage(b.surface.Image())
	b.image.FillMode = canvas.ImageFillStretch
	b.image.ScaleMode = canvas.ImageScalePixels
	b.image.SetMinSize(fyne.NewSize(float32(width), float32(height)))
	b.ExtendBaseWidget(b)
	return b
}

// Redraw repaints the whole surface from the session's document.
func (b *BoardWidget) Redraw(c session.Change) {
	if err := render.Render(b.surface, b.session.Document()); err != nil {
		b.log.WithError(err).Warn("redraw: some strokes failed to render")
	}
	b.image.Image = b.surface.Image()
	b.image.Refresh()

	if c == session.ChangeStroke || b.OnFrame == nil {
		return
	}
	var buf bytes.Buffer
	if err := b.surface.EncodePNG(&buf); err != nil {
		b.log.WithError(err).Warn("redraw: frame encode failed")
		return
	}
	b.OnFrame(buf.Bytes())
}

// Close releases the drawing surface.
func (b *BoardWidget) Close() error {
	return b.surface.Close()
}

// toSurface maps a widget position onto surface coordinates.
func (b *BoardWidget) toSurface(pos fyne.Position) state.Point {
	size := b.Size()
	x, y := float64(pos.X), float64(pos.Y)
	if size.Width > 0 && size.Height > 0 {
		x *= float64(b.width) / float64(size.Width)
		y *= float64(b.height) / float64(size.Height)
	}
	return state.Point{X: x, Y: y}
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.session.PointerDown(b.toSurface(e.Position))
	}
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.session.PointerUp()
	}
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.session.PointerMove(b.toSurface(e.Position))
}

func (b *BoardWidget) DragEnd() {
	b.session.PointerUp()
}

// Moves with the button held arrive through Dragged.
func (b *BoardWidget) MouseMoved(*desktop.MouseEvent) {}
func (b *BoardWidget) MouseIn(*desktop.MouseEvent)    {}

func (b *BoardWidget) MouseOut() {
	b.session.PointerLeave()
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(b.image)
}
