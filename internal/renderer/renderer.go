package renderer

import (
	"fmt"

	"termpong/internal/pong"
)

// Renderer draws in game-space coordinates. Implementations own the mapping
// to device cells or pixels.
type Renderer interface {
	Clear(background pong.Color)
	DrawFilledRect(pos, size pong.Vector, c pong.Color)
	DrawLine(a, b pong.Vector, c pong.Color)
	DrawDebugText(text string, c pong.Color)
	Present()
}

var (
	ColorBackground = pong.Color{R: 0.39, G: 0.58, B: 0.93}
	ColorGameScreen = pong.Color{R: 0.04, G: 0.04, B: 0.04}
	ColorScore      = pong.Color{R: 0.5, G: 0.7, B: 0.0}
	ColorDebugText  = pong.Color{R: 1.0, G: 1.0, B: 0.25}
	ColorContact    = pong.Color{R: 1.0, G: 0.87, B: 0.08}
)

var scoreLocations = [2]float32{-0.48, 0.37}

const (
	scoreTop   = -0.48
	digitPixel = 0.02
	digitWidth = 0.07
)

// Render draws one frame of the session: the field, the scores, every
// displayed entity, the contact vectors found in the last step and the
// debug line.
func Render(r Renderer, s *pong.Session, fps int) {
	r.Clear(ColorBackground)
	r.DrawFilledRect(pong.Vector{}, pong.Vector{X: 1, Y: 1}, ColorGameScreen)

	scores := s.Scores()
	for side, score := range scores {
		x := scoreLocations[side]
		if tens := (score / 10) % 10; tens != 0 {
			drawDigit(r, tens, pong.Vector{X: x, Y: scoreTop}, ColorScore)
		}
		drawDigit(r, score%10, pong.Vector{X: x + digitWidth, Y: scoreTop}, ColorScore)
	}

	entities := s.Entities()
	for i := range entities {
		e := &entities[i]
		if e.Has(pong.Display) {
			r.DrawFilledRect(e.Pos, e.Size, e.Color)
		}
	}
	for i := range entities {
		e := &entities[i]
		if e.InContact {
			r.DrawLine(e.Pos, e.Pos.Add(e.Contact), ColorContact)
		}
	}

	r.DrawDebugText(fmt.Sprintf("fps=%d %s", fps, s.Debug()), ColorDebugText)
	r.Present()
}

// drawDigit draws d with its top-left pixel centred at pos.
func drawDigit(r Renderer, d int, pos pong.Vector, c pong.Color) {
	glyph := digits[d]
	for row := 0; row < glyphRows; row++ {
		for col := 0; col < glyphCols; col++ {
			if glyph[row][col] == ' ' {
				continue
			}
			at := pos.Add(pong.Vector{X: float32(col) * digitPixel, Y: float32(row) * digitPixel})
			r.DrawFilledRect(at, pong.Vector{X: digitPixel, Y: digitPixel}, c)
		}
	}
}
