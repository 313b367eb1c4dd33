// Package storage provides the string key-value capability the drawing pad
// persists its state through.
package storage

import (
	"errors"
	"sync"

	"fyne.io/fyne/v2"
)

// Keys under which the pad keeps its state.
const (
	KeyNotes      = "savedNotes"
	KeyDocument   = "allLines"
	KeyBackground = "canvasColor"
)

// ErrUnavailable is returned by stores that cannot be written.
var ErrUnavailable = errors.New("storage unavailable")

// KV is a string key-value store.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Preferences keeps values in Fyne's per-application preferences.
type Preferences struct {
	prefs fyne.Preferences
}

// NewPreferences wraps p.
func NewPreferences(p fyne.Preferences) *Preferences {
	return &Preferences{prefs: p}
}

// Get treats an empty value as absent.
func (p *Preferences) Get(key string) (string, bool) {
	if p.prefs == nil {
		return "", false
	}
	v := p.prefs.String(key)
	return v, v != ""
}

func (p *Preferences) Set(key, value string) error {
	if p.prefs == nil {
		return ErrUnavailable
	}
	p.prefs.SetString(key, value)
	return nil
}

// Memory is an in-process KV. The zero value is ready to use.
// FailWrites makes every Set return ErrUnavailable.
type Memory struct {
	mu         sync.Mutex
	data       map[string]string
	FailWrites bool
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrUnavailable
	}
	if m.data == nil {
		m.data = make(map[string]string)
	}
	m.data[key] = value
	return nil
}
