package state

// Store holds the document and tracks the stroke of the gesture in progress.
// It is not safe for concurrent use; callers drive it from a single goroutine.
type Store struct {
	doc    Document
	active int // index of the active stroke, -1 when idle
	newID  IDFunc
}

// NewStore wraps doc. A zero background is replaced by the default.
func NewStore(doc Document) *Store {
	return NewStoreWithIDs(doc, NewStrokeID)
}

// NewStoreWithIDs is NewStore with a custom stroke ID source.
func NewStoreWithIDs(doc Document, ids IDFunc) *Store {
	doc = doc.Clone()
	if doc.Background == "" {
		doc.Background = DefaultBackground
	}
	return &Store{doc: doc, active: -1, newID: ids}
}

// BeginStroke starts a stroke at p and makes it active.
// It returns "" and does nothing if a gesture is already active.
func (s *Store) BeginStroke(p Point, color string, width, opacity float64) StrokeID {
	if s.active >= 0 {
		return ""
	}
	c, ok := NormalizeColor(color)
	if !ok {
		c = DefaultInk
	}
	st := Stroke{
		ID:      s.newID(),
		Color:   c,
		Width:   positiveWidth(width),
		Opacity: ClampOpacity(opacity),
		Points:  []Point{p},
	}
	s.doc.Strokes = append(s.doc.Strokes, st)
	s.active = len(s.doc.Strokes) - 1
	return st.ID
}

// ExtendActiveStroke appends p to the active stroke.
// It reports false if no gesture is active.
func (s *Store) ExtendActiveStroke(p Point) bool {
	if s.active < 0 {
		return false
	}
	st := &s.doc.Strokes[s.active]
	st.Points = append(st.Points, p)
	return true
}

// EndStroke finalises the active stroke. It reports whether one was active.
func (s *Store) EndStroke() bool {
	was := s.active >= 0
	s.active = -1
	return was
}

// Active reports whether a gesture is in progress.
func (s *Store) Active() bool { return s.active >= 0 }

// Len returns the number of strokes.
func (s *Store) Len() int { return len(s.doc.Strokes) }

// Background returns the current background color.
func (s *Store) Background() string { return s.doc.Background }

// Reset removes every stroke and ends any gesture.
func (s *Store) Reset() {
	s.doc.Strokes = []Stroke{}
	s.active = -1
}

// SetBackground replaces the background color. Changing the background
// discards the drawing, so all strokes are removed as well.
// An invalid color leaves the document untouched and reports false.
func (s *Store) SetBackground(color string) bool {
	c, ok := NormalizeColor(color)
	if !ok {
		return false
	}
	s.doc.Background = c
	s.Reset()
	return true
}

// Replace swaps in doc as the whole document and ends any gesture.
func (s *Store) Replace(doc Document) {
	s.doc = doc.Clone()
	if s.doc.Background == "" {
		s.doc.Background = DefaultBackground
	}
	s.active = -1
}

// Document returns a deep copy of the current document.
func (s *Store) Document() Document {
	return s.doc.Clone()
}

// Serialize encodes the current document.
func (s *Store) Serialize() ([]byte, error) {
	return Serialize(s.doc)
}
