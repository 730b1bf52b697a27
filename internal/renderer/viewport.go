package renderer

import (
	"math"

	"termpong/internal/pong"
)

// Terminal cells are roughly twice as tall as they are wide.
const cellAspect = 2.0

// The play field takes this share of the shorter screen axis.
const fieldShare = 0.9

// Viewport maps game space, the unit square centred on the origin, onto
// terminal cells while keeping the field square on screen.
type Viewport struct {
	OriginX float64
	OriginY float64
	ScaleX  float64
	ScaleY  float64
	Width   int
	Height  int
}

func FitViewport(width, height int) Viewport {
	side := math.Min(float64(width)/cellAspect, float64(height)) * fieldShare
	cols := side * cellAspect
	return Viewport{
		OriginX: (float64(width) - cols) / 2,
		OriginY: (float64(height) - side) / 2,
		ScaleX:  cols,
		ScaleY:  side,
		Width:   width,
		Height:  height,
	}
}

func (v Viewport) toScreen(p pong.Vector) (float64, float64) {
	return (float64(p.X)+0.5)*v.ScaleX + v.OriginX, (float64(p.Y)+0.5)*v.ScaleY + v.OriginY
}

// ToCell returns the cell containing p.
func (v Viewport) ToCell(p pong.Vector) (int, int) {
	x, y := v.toScreen(p)
	return int(math.Floor(x)), int(math.Floor(y))
}

// CellRect returns the half-open cell ranges covered by a rectangle centred
// on pos. Rectangles thinner than a cell still cover the cell holding their
// centre.
func (v Viewport) CellRect(pos, size pong.Vector) (x0, y0, x1, y1 int) {
	half := size.Half()
	lx, ly := v.toScreen(pos.Sub(half))
	hx, hy := v.toScreen(pos.Add(half))
	x0, x1 = cellSpan(lx, hx)
	y0, y1 = cellSpan(ly, hy)
	return x0, y0, x1, y1
}

func (v Viewport) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < v.Width && y < v.Height
}

func cellSpan(lo, hi float64) (int, int) {
	a, b := int(math.Round(lo)), int(math.Round(hi))
	if b <= a {
		a = int(math.Floor((lo + hi) / 2))
		b = a + 1
	}
	return a, b
}
