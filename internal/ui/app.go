package ui

import (
	"fmt"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"MyDrawPad/internal/export"
	"MyDrawPad/internal/session"
	"MyDrawPad/internal/state"
)

// Window is the drawing pad's main window.
type Window struct {
	fyne.Window
	Board   *BoardWidget
	Notes   *widget.Entry
	session *session.Session
	tools   *toolbar
	width   int
	height  int
	log     logrus.FieldLogger
}

// NewWindow builds the window around s. The session is loaded and drawn.
func NewWindow(a fyne.App, s *session.Session, width, height int, log logrus.FieldLogger) *Window {
	w := &Window{
		Window:  a.NewWindow("My Draw Pad"),
		session: s,
		width:   width,
		height:  height,
		log:     log.WithField("component", "ui"),
	}

	w.Board = NewBoardWidget(s, width, height, log)
	s.OnChange = w.Board.Redraw
	s.Load()

	w.Notes = widget.NewMultiLineEntry()
	w.Notes.SetPlaceHolder("Notes")
	w.Notes.Wrapping = fyne.TextWrapWord
	w.Notes.SetText(s.Notes())
	w.Notes.OnChanged = s.SetNotes

	w.tools = newToolbar(s, w.Window)
	w.tools.onDownload = func() { w.saveAs(export.PNGFileName, export.PNG) }
	w.tools.onDownloadPDF = func() { w.saveAs(export.PDFFileName, export.PDF) }

	split := container.NewHSplit(container.NewCenter(w.Board), w.Notes)
	split.Offset = 0.75
	w.SetContent(container.NewBorder(w.tools.object(), nil, nil, nil, split))
	w.Resize(fyne.NewSize(float32(width)+320, float32(height)+80))
	w.SetOnClosed(func() {
		if err := w.Board.Close(); err != nil {
			w.log.WithError(err).Debug("close: surface release failed")
		}
	})
	return w
}

type exporter func(io.Writer, state.Document, int, int) error

// saveAs asks for a destination and writes the current drawing to it.
func (w *Window) saveAs(name string, write exporter) {
	doc := w.session.Document()
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w.Window)
			return
		}
		if writer == nil {
			return // cancelled
		}
		if err := w.writeExport(writer, doc, write); err != nil {
			w.log.WithError(err).WithField("uri", writer.URI().String()).Error("export failed")
			dialog.ShowError(err, w.Window)
			return
		}
		w.log.WithField("uri", writer.URI().String()).Info("exported drawing")
	}, w.Window)
	d.SetFileName(name)
	d.Show()
}

func (w *Window) writeExport(writer fyne.URIWriteCloser, doc state.Document, write exporter) (err error) {
	defer func() {
		if cerr := writer.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", writer.URI(), cerr)
		}
	}()
	return write(writer, doc, w.width, w.height)
}
