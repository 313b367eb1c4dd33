// Package session owns the drawing pad's mutable state for one run of the
// application: the stroke store, the draw mode, the notes text and the
// key-value store they are persisted to.
package session

import (
	"github.com/sirupsen/logrus"

	"MyDrawPad/internal/state"
	"MyDrawPad/internal/storage"
)

// Change describes the mutation that triggered OnChange.
type Change int

const (
	// ChangeStroke is a new point on the stroke being drawn.
	ChangeStroke Change = iota
	// ChangeDocument is any other change to the visible document.
	ChangeDocument
)

// Session is driven by the UI goroutine and is not safe for concurrent use.
type Session struct {
	store    *state.Store
	mode     state.DrawMode
	maxWidth float64
	notes    string
	kv       storage.KV
	log      logrus.FieldLogger

	// OnChange is called after every mutation of the visible document.
	OnChange func(Change)
}

// New returns a session with an empty document. Call Load to restore
// persisted state.
func New(kv storage.KV, maxWidth float64, log logrus.FieldLogger) *Session {
	if maxWidth < state.MinLineWidth {
		maxWidth = state.MinLineWidth
	}
	return &Session{
		store:    state.NewStore(state.NewDocument()),
		mode:     state.DefaultMode(maxWidth),
		maxWidth: maxWidth,
		kv:       kv,
		log:      log.WithField("component", "session"),
	}
}

// Load restores notes and the document from the key-value store.
// Missing or malformed data leaves the defaults in place.
func (s *Session) Load() {
	if notes, ok := s.kv.Get(storage.KeyNotes); ok {
		s.notes = notes
	}

	doc := state.NewDocument()
	hasBackground := false
	if raw, ok := s.kv.Get(storage.KeyDocument); ok {
		d, hasBG, err := state.Decode([]byte(raw))
		if err != nil {
			s.log.WithError(err).Warn("load: stored drawing is unreadable, starting empty")
		} else {
			doc, hasBackground = d, hasBG
		}
	}
	if !hasBackground {
		if bg, ok := s.kv.Get(storage.KeyBackground); ok {
			if c, ok := state.NormalizeColor(bg); ok {
				doc.Background = c
			}
		}
	}

	s.store.Replace(doc)
	s.log.WithFields(logrus.Fields{
		"strokes":    len(doc.Strokes),
		"background": doc.Background,
	}).Debug("load: restored drawing")
	s.changed(ChangeDocument)
}

// PointerDown starts a stroke with the current draw mode.
func (s *Session) PointerDown(p state.Point) {
	id := s.store.BeginStroke(p, s.mode.Color, s.mode.Width, s.mode.Opacity)
	if id == "" {
		return
	}
	s.persist()
	s.changed(ChangeDocument)
}

// PointerMove extends the stroke being drawn, if any.
func (s *Session) PointerMove(p state.Point) {
	if !s.store.ExtendActiveStroke(p) {
		return
	}
	s.persist()
	s.changed(ChangeStroke)
}

// PointerUp ends the stroke being drawn.
func (s *Session) PointerUp() {
	if s.store.EndStroke() {
		s.persist()
		s.changed(ChangeDocument)
	}
}

// PointerLeave ends the stroke when the pointer leaves the surface.
func (s *Session) PointerLeave() {
	s.PointerUp()
}

// Drawing reports whether a gesture is in progress.
func (s *Session) Drawing() bool { return s.store.Active() }

// SetColor sets the ink for the next stroke. It reports false for an
// invalid color, which is ignored.
func (s *Session) SetColor(hex string) bool {
	c, ok := state.NormalizeColor(hex)
	if !ok {
		s.log.WithField("color", hex).Warn("set color: ignoring invalid color")
		return false
	}
	s.mode.Color = c
	return true
}

// SetBackground changes the background. This clears the drawing.
func (s *Session) SetBackground(hex string) bool {
	if !s.store.SetBackground(hex) {
		s.log.WithField("color", hex).Warn("set background: ignoring invalid color")
		return false
	}
	s.persist()
	s.changed(ChangeDocument)
	return true
}

// SetLineWidth sets the width of the next stroke, clamped to [1, max].
func (s *Session) SetLineWidth(w float64) {
	s.mode.Width = state.ClampWidth(w, s.maxWidth)
}

// SetOpacity sets the opacity of the next stroke, clamped to [0, 1].
func (s *Session) SetOpacity(o float64) {
	s.mode.Opacity = state.ClampOpacity(o)
}

// ApplyPreset replaces the draw mode with p.
func (s *Session) ApplyPreset(p state.Preset) {
	s.mode = p.Mode(s.maxWidth, s.store.Background())
	s.log.WithField("preset", p).Debug("preset applied")
}

// Reset removes every stroke.
func (s *Session) Reset() {
	s.store.Reset()
	s.persist()
	s.changed(ChangeDocument)
}

// SetNotes replaces the notes text and persists it.
func (s *Session) SetNotes(text string) {
	s.notes = text
	if err := s.kv.Set(storage.KeyNotes, text); err != nil {
		s.log.WithError(err).Warn("persist: notes write failed")
	}
}

func (s *Session) Notes() string            { return s.notes }
func (s *Session) Mode() state.DrawMode     { return s.mode }
func (s *Session) MaxLineWidth() float64    { return s.maxWidth }
func (s *Session) Background() string       { return s.store.Background() }
func (s *Session) Document() state.Document { return s.store.Document() }

// persist writes the document and background. Failures are logged and the
// in-memory state stays authoritative.
func (s *Session) persist() {
	data, err := s.store.Serialize()
	if err != nil {
		s.log.WithError(err).Error("persist: encode failed")
		return
	}
	if err := s.kv.Set(storage.KeyDocument, string(data)); err != nil {
		s.log.WithError(err).Warn("persist: drawing write failed")
	}
	if err := s.kv.Set(storage.KeyBackground, s.store.Background()); err != nil {
		s.log.WithError(err).Warn("persist: background write failed")
	}
}

func (s *Session) changed(c Change) {
	if s.OnChange != nil {
		s.OnChange(c)
	}
}
