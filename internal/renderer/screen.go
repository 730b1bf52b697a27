package renderer

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"termpong/internal/pong"
)

const block = '█'

// Screen renders onto a tcell screen, one block character per filled cell.
type Screen struct {
	screen tcell.Screen
	view   Viewport
	bg     tcell.Style
}

func NewScreen(s tcell.Screen) *Screen {
	w, h := s.Size()
	return &Screen{
		screen: s,
		view:   FitViewport(w, h),
		bg:     tcell.StyleDefault,
	}
}

func toTcell(c pong.Color) tcell.Color {
	return tcell.NewRGBColor(channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float32) int32 {
	return int32(math.Round(math.Max(0, math.Min(1, float64(v))) * 255))
}

// Clear refits the viewport to the current screen size and paints every
// cell with the background colour.
func (r *Screen) Clear(background pong.Color) {
	w, h := r.screen.Size()
	r.view = FitViewport(w, h)
	r.bg = tcell.StyleDefault.Background(toTcell(background))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r.screen.SetContent(x, y, ' ', nil, r.bg)
		}
	}
}

func (r *Screen) DrawFilledRect(pos, size pong.Vector, c pong.Color) {
	style := tcell.StyleDefault.Foreground(toTcell(c)).Background(toTcell(c))
	x0, y0, x1, y1 := r.view.CellRect(pos, size)
	for y := max(y0, 0); y < min(y1, r.view.Height); y++ {
		for x := max(x0, 0); x < min(x1, r.view.Width); x++ {
			r.screen.SetContent(x, y, block, nil, style)
		}
	}
}

func (r *Screen) DrawLine(a, b pong.Vector, c pong.Color) {
	style := tcell.StyleDefault.Foreground(toTcell(c))
	ax, ay := r.view.ToCell(a)
	bx, by := r.view.ToCell(b)

	steps := max(abs(bx-ax), abs(by-ay))
	if steps == 0 {
		r.plot(ax, ay, style)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := ax + int(math.Round(t*float64(bx-ax)))
		y := ay + int(math.Round(t*float64(by-ay)))
		r.plot(x, y, style)
	}
}

func (r *Screen) plot(x, y int, style tcell.Style) {
	if r.view.Contains(x, y) {
		r.screen.SetContent(x, y, '*', nil, style)
	}
}

// DrawDebugText writes text on the top row, clipped to the screen width.
func (r *Screen) DrawDebugText(text string, c pong.Color) {
	style := r.bg.Foreground(toTcell(c))
	x := 1
	for _, ch := range text {
		if x >= r.view.Width {
			return
		}
		r.screen.SetContent(x, 0, ch, nil, style)
		x++
	}
}

func (r *Screen) Present() {
	r.screen.Show()
}

func (r *Screen) Viewport() Viewport {
	return r.view
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
