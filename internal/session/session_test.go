package session

import (
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"MyDrawPad/internal/state"
	"MyDrawPad/internal/storage"
)

func newSession(t *testing.T, kv storage.KV) (*Session, *logtest.Hook, *[]Change) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s := New(kv, 40, logger)
	var changes []Change
	s.OnChange = func(c Change) { changes = append(changes, c) }
	return s, hook, &changes
}

func countLevel(hook *logtest.Hook, level logrus.Level) int {
	n := 0
	for _, e := range hook.AllEntries() {
		if e.Level == level {
			n++
		}
	}
	return n
}

func TestSession_DrawPersists(t *testing.T) {
	kv := &storage.Memory{}
	s, _, changes := newSession(t, kv)

	s.SetColor("#ff0000")
	s.SetLineWidth(5)
	s.SetOpacity(1)
	s.PointerDown(state.Point{X: 0, Y: 0})
	s.PointerMove(state.Point{X: 10, Y: 10})
	s.PointerUp()

	want := []Change{ChangeDocument, ChangeStroke, ChangeDocument}
	if len(*changes) != len(want) {
		t.Fatalf("changes = %v, want %v", *changes, want)
	}
	for i := range want {
		if (*changes)[i] != want[i] {
			t.Errorf("change[%d] = %v, want %v", i, (*changes)[i], want[i])
		}
	}

	raw, ok := kv.Get(storage.KeyDocument)
	if !ok {
		t.Fatal("document was not persisted")
	}
	doc := state.Deserialize([]byte(raw))
	if len(doc.Strokes) != 1 {
		t.Fatalf("persisted %d strokes, want 1", len(doc.Strokes))
	}
	st := doc.Strokes[0]
	if st.Color != "#FF0000" || st.Width != 5 || st.Opacity != 1 || len(st.Points) != 2 {
		t.Errorf("persisted stroke = %+v", st)
	}
	if bg, _ := kv.Get(storage.KeyBackground); bg != state.DefaultBackground {
		t.Errorf("persisted background = %q", bg)
	}
}

func TestSession_MoveWithoutGestureIsIgnored(t *testing.T) {
	s, _, changes := newSession(t, &storage.Memory{})
	s.PointerMove(state.Point{X: 1, Y: 1})
	s.PointerUp()
	if len(*changes) != 0 {
		t.Errorf("changes = %v, want none", *changes)
	}
	if len(s.Document().Strokes) != 0 {
		t.Error("stroke created without pointer down")
	}
}

func TestSession_PointerLeaveEndsStroke(t *testing.T) {
	s, _, _ := newSession(t, &storage.Memory{})
	s.PointerDown(state.Point{X: 1, Y: 1})
	s.PointerLeave()
	if s.Drawing() {
		t.Error("Drawing() after leave = true")
	}
	s.PointerMove(state.Point{X: 2, Y: 2})
	if n := len(s.Document().Strokes[0].Points); n != 1 {
		t.Errorf("stroke has %d points after leave, want 1", n)
	}
}

func TestSession_Load(t *testing.T) {
	kv := &storage.Memory{}
	doc := state.Document{
		Background: "#102030",
		Strokes:    []state.Stroke{{ID: "a", Color: "#000000", Width: 3, Opacity: 1, Points: []state.Point{{X: 1, Y: 2}}}},
	}
	data, _ := state.Serialize(doc)
	kv.Set(storage.KeyDocument, string(data))
	kv.Set(storage.KeyBackground, "#FFFFFF")
	kv.Set(storage.KeyNotes, "shopping list")

	s, _, changes := newSession(t, kv)
	s.Load()

	if s.Notes() != "shopping list" {
		t.Errorf("Notes() = %q", s.Notes())
	}
	if got := s.Document(); got.Background != "#102030" || len(got.Strokes) != 1 {
		t.Errorf("Document() = %+v", got)
	}
	if len(*changes) != 1 {
		t.Errorf("Load triggered %d changes, want 1", len(*changes))
	}
}

func TestSession_LoadLegacyUsesBackgroundKey(t *testing.T) {
	kv := &storage.Memory{}
	kv.Set(storage.KeyDocument, `[{"color":"#000000","lineWidth":4,"opacity":1,"points":[[1,1],[2,2]]}]`)
	kv.Set(storage.KeyBackground, "#00ff00")

	s, _, _ := newSession(t, kv)
	s.Load()

	doc := s.Document()
	if doc.Background != "#00FF00" {
		t.Errorf("Background = %q, want #00FF00", doc.Background)
	}
	if len(doc.Strokes) != 1 {
		t.Errorf("Strokes = %d, want 1", len(doc.Strokes))
	}
}

func TestSession_LoadMalformed(t *testing.T) {
	kv := &storage.Memory{}
	kv.Set(storage.KeyDocument, `{"background":"#000000","strokes":[{"col`)

	s, hook, _ := newSession(t, kv)
	s.Load()

	doc := s.Document()
	if doc.Background != state.DefaultBackground || len(doc.Strokes) != 0 {
		t.Errorf("Document() = %+v, want default", doc)
	}
	if countLevel(hook, logrus.WarnLevel) == 0 {
		t.Error("malformed drawing was not logged")
	}
}

func TestSession_WriteFailureKeepsMemoryState(t *testing.T) {
	kv := &storage.Memory{FailWrites: true}
	s, hook, _ := newSession(t, kv)

	s.PointerDown(state.Point{X: 0, Y: 0})
	s.PointerMove(state.Point{X: 5, Y: 5})
	s.PointerUp()
	s.SetNotes("still here")

	if n := len(s.Document().Strokes); n != 1 {
		t.Errorf("strokes = %d, want 1", n)
	}
	if s.Notes() != "still here" {
		t.Errorf("Notes() = %q", s.Notes())
	}
	if countLevel(hook, logrus.WarnLevel) == 0 {
		t.Error("write failures were not logged")
	}
}

func TestSession_SetBackgroundClearsAndPersists(t *testing.T) {
	kv := &storage.Memory{}
	s, _, _ := newSession(t, kv)
	s.PointerDown(state.Point{X: 0, Y: 0})
	s.PointerUp()

	if !s.SetBackground("#0000FF") {
		t.Fatal("SetBackground() = false")
	}
	if n := len(s.Document().Strokes); n != 0 {
		t.Errorf("strokes = %d, want 0", n)
	}
	if bg, _ := kv.Get(storage.KeyBackground); bg != "#0000FF" {
		t.Errorf("persisted background = %q", bg)
	}
	if s.SetBackground("blue") {
		t.Error("SetBackground(blue) = true")
	}
}

func TestSession_EraserUsesBackground(t *testing.T) {
	s, _, _ := newSession(t, &storage.Memory{})
	s.SetBackground("#123456")
	s.ApplyPreset(state.PresetEraser)

	want := state.DrawMode{Color: "#123456", Width: 30, Opacity: 1}
	if got := s.Mode(); got != want {
		t.Errorf("Mode() = %+v, want %+v", got, want)
	}

	s.PointerDown(state.Point{X: 3, Y: 3})
	st := s.Document().Strokes[0]
	if st.Color != "#123456" || st.Width != 30 || st.Opacity != 1 {
		t.Errorf("eraser stroke = %+v", st)
	}
}

func TestSession_ModeClamping(t *testing.T) {
	s, _, _ := newSession(t, &storage.Memory{})
	s.SetLineWidth(1000)
	s.SetOpacity(-0.5)
	if m := s.Mode(); m.Width != 40 || m.Opacity != 0 {
		t.Errorf("Mode() = %+v", m)
	}
	s.SetLineWidth(0)
	if m := s.Mode(); m.Width != state.MinLineWidth {
		t.Errorf("Width = %v, want %v", m.Width, state.MinLineWidth)
	}
	if s.SetColor("zzz") {
		t.Error("SetColor(zzz) = true")
	}
	if m := s.Mode(); m.Color != state.DefaultInk {
		t.Errorf("Color = %q after invalid input", m.Color)
	}
}

func TestSession_Reset(t *testing.T) {
	kv := &storage.Memory{}
	s, _, _ := newSession(t, kv)
	s.SetBackground("#ABCDEF")
	s.PointerDown(state.Point{X: 0, Y: 0})
	s.PointerUp()
	s.Reset()

	raw, _ := kv.Get(storage.KeyDocument)
	doc := state.Deserialize([]byte(raw))
	if doc.Background != "#ABCDEF" || len(doc.Strokes) != 0 {
		t.Errorf("persisted after reset = %+v", doc)
	}
}
