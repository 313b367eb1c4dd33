package state

import "github.com/google/uuid"

// IDFunc produces identifiers for new strokes.
type IDFunc func() StrokeID

// NewStrokeID returns a random stroke identifier.
func NewStrokeID() StrokeID {
	return StrokeID(uuid.NewString())
}
