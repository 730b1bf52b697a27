package pong

import (
	"errors"
	"fmt"
)

var ErrInvalidSize = errors.New("entity size must be positive on both axes")

type Flags uint8

const (
	// Display entities are drawn.
	Display Flags = 1 << iota
	// Physics entities are integrated and take part in collision.
	Physics
)

// EntityID is the entity's index in the session roster. The roster never
// grows or shrinks during play so an ID stays valid for the whole session.
type EntityID int

const NoEntity EntityID = -1

// Entity is an axis-aligned rectangle. Pos is the centre and Size the full
// width and height.
type Entity struct {
	ID    EntityID
	Name  string
	Pos   Vector
	Size  Vector
	Vel   Vector
	Accel Vector

	Color     Color
	OrigColor Color
	Flags     Flags
	Behavior  Behavior

	// Contact holds the last penetration vector found with this entity as
	// the first member of a pair during the current step.
	Contact   Vector
	InContact bool
}

// NewEntity builds an entity and rejects degenerate sizes.
func NewEntity(name string, pos, size Vector, color Color, flags Flags, b Behavior) (Entity, error) {
	if !(size.X > 0 && size.Y > 0) {
		return Entity{}, fmt.Errorf("%s: %w (got %vx%v)", name, ErrInvalidSize, size.X, size.Y)
	}
	return Entity{
		ID:        NoEntity,
		Name:      name,
		Pos:       pos,
		Size:      size,
		Color:     color,
		OrigColor: color,
		Flags:     flags,
		Behavior:  b,
	}, nil
}

func (e *Entity) Has(f Flags) bool {
	return e.Flags&f == f
}

func (e *Entity) HalfExtents() Vector {
	return e.Size.Half()
}
