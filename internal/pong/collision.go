package pong

import "golang.org/x/exp/constraints"

// Overlaps reports whether two boxes intersect on both axes. Boxes that only
// share an edge do not overlap.
func Overlaps(a, b *Entity) bool {
	ha, hb := a.HalfExtents(), b.HalfExtents()
	return a.Pos.X-ha.X < b.Pos.X+hb.X &&
		a.Pos.X+ha.X > b.Pos.X-hb.X &&
		a.Pos.Y-ha.Y < b.Pos.Y+hb.Y &&
		a.Pos.Y+ha.Y > b.Pos.Y-hb.Y
}

// PenetrationVector returns the minimum translation that moves a out of b.
// The result is non-zero on exactly one axis, the one with the smaller
// overlap. ok is false when the boxes do not overlap.
func PenetrationVector(a, b *Entity) (pv Vector, ok bool) {
	ha, hb := a.HalfExtents(), b.HalfExtents()
	d := b.Pos.Sub(a.Pos)

	px := (ha.X + hb.X) - abs(d.X)
	py := (ha.Y + hb.Y) - abs(d.Y)
	if px <= 0 || py <= 0 {
		return Vector{}, false
	}

	if px < py {
		return Vector{X: -direction(d.X) * px}, true
	}
	return Vector{Y: -direction(d.Y) * py}, true
}

func abs[T constraints.Float](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// direction is sign with zero treated as positive, so boxes sharing a centre
// still resolve to a non-zero vector.
func direction[T constraints.Float](v T) T {
	if v < 0 {
		return -1
	}
	return 1
}

func sign[T constraints.Float](v T) T {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
