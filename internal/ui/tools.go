package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"MyDrawPad/internal/session"
	"MyDrawPad/internal/state"
)

// --- Custom widget for color swatches ---
type colorSwatch struct {
	widget.BaseWidget
	rect     *canvas.Rectangle
	OnTapped func()
}

func newColorSwatch(hex string, tapped func()) *colorSwatch {
	s := &colorSwatch{rect: canvas.NewRectangle(hexColor(hex)), OnTapped: tapped}
	s.rect.SetMinSize(fyne.NewSize(32, 32))
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) SetColor(hex string) {
	s.rect.FillColor = hexColor(hex)
	s.rect.Refresh()
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(s.rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped()
	}
}

// toolbar holds the controls that edit the draw mode and the document.
type toolbar struct {
	session    *session.Session
	win        fyne.Window
	ink        *colorSwatch
	background *colorSwatch
	width      *widget.Slider
	opacity    *widget.Slider
	widthText  *widget.Label
	opacText   *widget.Label
	syncing    bool

	onDownload    func()
	onDownloadPDF func()
}

func newToolbar(s *session.Session, win fyne.Window) *toolbar {
	t := &toolbar{session: s, win: win}

	t.ink = newColorSwatch(s.Mode().Color, func() {
		t.pickColor("Pen color", func(hex string) {
			t.session.SetColor(hex)
			t.sync()
		})
	})
	t.background = newColorSwatch(s.Background(), func() {
		t.pickColor("Canvas color", func(hex string) {
			t.session.SetBackground(hex)
			t.sync()
		})
	})

	t.widthText = widget.NewLabel("")
	t.width = widget.NewSlider(state.MinLineWidth, s.MaxLineWidth())
	t.width.Step = 1
	t.width.OnChanged = func(v float64) {
		if t.syncing {
			return
		}
		t.session.SetLineWidth(v)
		t.widthText.SetText(fmt.Sprintf("%.0f", t.session.Mode().Width))
	}

	t.opacText = widget.NewLabel("")
	t.opacity = widget.NewSlider(0, 1)
	t.opacity.Step = 0.05
	t.opacity.OnChanged = func(v float64) {
		if t.syncing {
			return
		}
		t.session.SetOpacity(v)
		t.opacText.SetText(fmt.Sprintf("%.0f%%", t.session.Mode().Opacity*100))
	}

	t.sync()
	return t
}

func (t *toolbar) applyPreset(p state.Preset) {
	t.session.ApplyPreset(p)
	t.sync()
}

// sync copies the session's draw mode into the controls without feeding
// the sliders' step rounding back into the mode.
func (t *toolbar) sync() {
	t.syncing = true
	defer func() { t.syncing = false }()

	m := t.session.Mode()
	t.ink.SetColor(m.Color)
	t.background.SetColor(t.session.Background())
	t.width.SetValue(m.Width)
	t.opacity.SetValue(m.Opacity)
	t.widthText.SetText(fmt.Sprintf("%.0f", m.Width))
	t.opacText.SetText(fmt.Sprintf("%.0f%%", m.Opacity*100))
}

func (t *toolbar) pickColor(title string, picked func(hex string)) {
	d := dialog.NewColorPicker(title, "", func(c color.Color) {
		picked(colorHex(c))
	}, t.win)
	d.Advanced = true
	d.Show()
}

func (t *toolbar) object() fyne.CanvasObject {
	tools := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() { t.applyPreset(state.PresetPen) }),
		widget.NewToolbarAction(theme.ColorPaletteIcon(), func() { t.applyPreset(state.PresetBrush) }),
		widget.NewToolbarAction(theme.ContentClearIcon(), func() { t.applyPreset(state.PresetEraser) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DeleteIcon(), func() { t.session.Reset() }),
		widget.NewToolbarAction(theme.DownloadIcon(), func() {
			if t.onDownload != nil {
				t.onDownload()
			}
		}),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), func() {
			if t.onDownloadPDF != nil {
				t.onDownloadPDF()
			}
		}),
	)

	slider := func(s *widget.Slider) fyne.CanvasObject {
		return container.New(layout.NewGridWrapLayout(fyne.NewSize(140, 35)), s)
	}

	return container.NewHBox(
		tools,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		t.ink,
		widget.NewLabel("Canvas:"),
		t.background,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		slider(t.width),
		t.widthText,
		widget.NewLabel("Opacity:"),
		slider(t.opacity),
		t.opacText,
		layout.NewSpacer(),
	)
}

func hexColor(hex string) color.Color {
	r, g, b, ok := state.ParseColor(hex)
	if !ok {
		return color.Black
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func colorHex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02X%02X%02X", n.R, n.G, n.B)
}
