package state

import (
	"reflect"
	"testing"
)

func sampleDocument() Document {
	return Document{
		Background: "#F0E0D0",
		Strokes: []Stroke{
			{ID: "a", Color: "#FF0000", Width: 5, Opacity: 1, Points: []Point{{0, 0}, {10, 10}}},
			{ID: "b", Color: "#00FF00", Width: 0.5, Opacity: 0.25, Points: []Point{{1.5, 2.25}}},
			{ID: "c", Color: "#0000FF", Width: 32, Opacity: 0.8, Points: []Point{{-3, 4}, {5.125, -6}, {7, 8}}},
		},
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	docs := map[string]Document{
		"empty":   NewDocument(),
		"sample":  sampleDocument(),
		"colored": {Background: "#000000", Strokes: []Stroke{}},
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			data, err := Serialize(doc)
			if err != nil {
				t.Fatalf("Serialize() error = %v", err)
			}
			got := Deserialize(data)
			if !reflect.DeepEqual(got, doc) {
				t.Errorf("Deserialize(Serialize(d)) = %+v, want %+v", got, doc)
			}
		})
	}
}

func TestSerialize_Format(t *testing.T) {
	doc := Document{
		Background: "#FFFFFF",
		Strokes:    []Stroke{{ID: "x", Color: "#000000", Width: 4, Opacity: 1, Points: []Point{{1, 2}}}},
	}
	data, err := Serialize(doc)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"background":"#FFFFFF","strokes":[{"id":"x","color":"#000000","lineWidth":4,"opacity":1,"points":[[1,2]]}]}`
	if string(data) != want {
		t.Errorf("Serialize() = %s, want %s", data, want)
	}
}

func TestDeserialize_Malformed(t *testing.T) {
	good, _ := Serialize(sampleDocument())
	cases := map[string]string{
		"empty":          "",
		"truncated":      string(good[:len(good)/2]),
		"not json":       "hello",
		"trailing":       string(good) + "}",
		"wrong type":     `{"background":"#FFFFFF","strokes":"nope"}`,
		"short point":    `{"strokes":[{"color":"#000000","lineWidth":1,"opacity":1,"points":[[1]]}]}`,
		"no points":      `{"strokes":[{"color":"#000000","lineWidth":1,"opacity":1,"points":[]}]}`,
		"bad color":      `{"strokes":[{"color":"red","lineWidth":1,"opacity":1,"points":[[1,1]]}]}`,
		"bad background": `{"background":"#GGGGGG","strokes":[]}`,
		"null":           "null",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			got := Deserialize([]byte(in))
			if !reflect.DeepEqual(got, NewDocument()) {
				t.Errorf("Deserialize(%q) = %+v, want default document", in, got)
			}
		})
	}
}

func TestDecode_LegacyStrokeArray(t *testing.T) {
	in := `[{"color":"#ff0000","lineWidth":7,"opacity":0.5,"points":[[1,2],[3,4]]}]`
	doc, hasBG, err := Decode([]byte(in))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if hasBG {
		t.Error("legacy array reported a background")
	}
	if doc.Background != DefaultBackground || len(doc.Strokes) != 1 {
		t.Fatalf("Decode() = %+v", doc)
	}
	st := doc.Strokes[0]
	if st.ID == "" {
		t.Error("legacy stroke was not given an id")
	}
	if st.Color != "#FF0000" || st.Width != 7 || st.Opacity != 0.5 {
		t.Errorf("stroke = %+v", st)
	}
}

func TestDecode_LegacyStringNumbers(t *testing.T) {
	in := `[{"color":"#000000","lineWidth":4,"opacity":1,"points":[[1,2],[3,4]]},` +
		`{"color":"#000000","lineWidth":"32","opacity":"0.8","points":[[5,6]]},` +
		`{"color":"#00ff00","lineWidth":" 7 ","opacity":"1","points":[[7,8]]}]`
	doc := Deserialize([]byte(in))
	if len(doc.Strokes) != 3 {
		t.Fatalf("restored %d strokes, want 3", len(doc.Strokes))
	}
	tests := []struct{ width, opacity float64 }{{4, 1}, {32, 0.8}, {7, 1}}
	for i, tt := range tests {
		st := doc.Strokes[i]
		if st.Width != tt.width || st.Opacity != tt.opacity {
			t.Errorf("stroke %d = width %v opacity %v, want %v %v", i, st.Width, st.Opacity, tt.width, tt.opacity)
		}
	}

	bad := map[string]string{
		"word width":   `[{"color":"#000000","lineWidth":"abc","opacity":1,"points":[[1,1]]}]`,
		"word opacity": `[{"color":"#000000","lineWidth":3,"opacity":"half","points":[[1,1]]}]`,
		"bool width":   `[{"color":"#000000","lineWidth":true,"opacity":1,"points":[[1,1]]}]`,
	}
	for name, in := range bad {
		t.Run(name, func(t *testing.T) {
			if _, _, err := Decode([]byte(in)); err == nil {
				t.Errorf("Decode(%s) succeeded, want error", in)
			}
			if got := Deserialize([]byte(in)); !reflect.DeepEqual(got, NewDocument()) {
				t.Errorf("Deserialize = %+v, want default document", got)
			}
		})
	}
}

func TestDecode_ObjectFormKeepsNumbersStrict(t *testing.T) {
	in := `{"background":"#FFFFFF","strokes":[{"color":"#000000","lineWidth":"7","opacity":1,"points":[[1,1]]}]}`
	if _, _, err := Decode([]byte(in)); err == nil {
		t.Error("Decode accepted a string line width in the object form")
	}
}

func TestSerialize_RoundTripNormalisesColors(t *testing.T) {
	doc := Document{
		Background: "#abc",
		Strokes:    []Stroke{{ID: "a", Color: "#ff00aa", Width: 2, Opacity: 1, Points: []Point{{1, 1}}}},
	}
	data, err := Serialize(doc)
	if err != nil {
		t.Fatal(err)
	}
	got := Deserialize(data)
	if got.Background != "#AABBCC" || got.Strokes[0].Color != "#FF00AA" {
		t.Errorf("colors = %q, %q; want #AABBCC, #FF00AA", got.Background, got.Strokes[0].Color)
	}

	// Once normalised, a second round trip is exact.
	again, _ := Serialize(got)
	if !reflect.DeepEqual(Deserialize(again), got) {
		t.Error("normalised document did not round-trip unchanged")
	}
}

func TestDecode_ClampsOutOfRange(t *testing.T) {
	in := `{"background":"#fff","strokes":[{"id":"q","color":"#000","lineWidth":-2,"opacity":3,"points":[[0,0]]}]}`
	doc, hasBG, err := Decode([]byte(in))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !hasBG || doc.Background != "#FFFFFF" {
		t.Errorf("background = %q (has=%v)", doc.Background, hasBG)
	}
	st := doc.Strokes[0]
	if st.Width != MinLineWidth || st.Opacity != 1 || st.Color != "#000000" {
		t.Errorf("stroke = %+v", st)
	}
}
