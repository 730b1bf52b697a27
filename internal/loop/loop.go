// Package loop drives a simulation at a fixed rate independent of how fast
// frames are presented.
//
// Every frame the wall time since the previous frame is added to a lag
// accumulator, and one simulation step runs for each whole fixed step the
// accumulator holds. A slow frame therefore runs several steps to catch up
// and a fast one may run none. The frame is then presented exactly once and
// the loop sleeps away whatever is left of the target frame period.
package loop

import (
	"context"
	"log/slog"
	"time"
)

// Hooks are called from the loop's goroutine only.
type Hooks struct {
	// Poll runs once per frame before any step, to drain pending input.
	Poll func()
	// Step advances the simulation by exactly one fixed step.
	Step func()
	// Render presents the current state once per frame.
	Render func(fps int)
}

type Loop struct {
	clock Clock
	step  float64
	frame time.Duration

	lag   float64
	prev  time.Time
	steps uint64

	frames   int
	fpsTimer float64
	fps      int
}

// New returns a loop stepping tickRate times per simulated second and
// presenting at most frameRate frames per real second. A non-positive
// frameRate disables pacing.
func New(clock Clock, tickRate, frameRate int) *Loop {
	if clock == nil {
		clock = SystemClock{}
	}
	var frame time.Duration
	if frameRate > 0 {
		frame = time.Second / time.Duration(frameRate)
	}
	return &Loop{
		clock: clock,
		step:  1 / float64(tickRate),
		frame: frame,
		prev:  clock.Now(),
	}
}

// Advance adds elapsed seconds to the lag and runs step while more than one
// fixed step is owed. It returns how many steps ran.
func (l *Loop) Advance(elapsed float64, step func()) int {
	l.lag += elapsed

	n := 0
	for l.lag > l.step {
		step()
		l.lag -= l.step
		n++
	}
	l.steps += uint64(n)
	return n
}

// Tick runs the simulation part of one frame that began at now.
func (l *Loop) Tick(now time.Time, step func()) int {
	elapsed := now.Sub(l.prev).Seconds()
	l.prev = now

	n := l.Advance(elapsed, step)
	if n > 1 {
		slog.Debug("simulation catching up", slog.Int("steps", n), slog.Float64("elapsed", elapsed))
	}

	l.frames++
	l.fpsTimer += elapsed
	if l.fpsTimer >= 1.0 {
		l.fps = int(float64(l.frames) / l.fpsTimer)
		l.fpsTimer = 0
		l.frames = 0
	}
	return n
}

// Run loops until ctx is done.
func (l *Loop) Run(ctx context.Context, h Hooks) {
	step := h.Step
	if step == nil {
		step = func() {}
	}
	l.prev = l.clock.Now()

	for ctx.Err() == nil {
		begin := l.clock.Now()

		if h.Poll != nil {
			h.Poll()
		}
		if ctx.Err() != nil {
			return
		}

		l.Tick(begin, step)
		if h.Render != nil {
			h.Render(l.fps)
		}

		if spent := l.clock.Now().Sub(begin); spent < l.frame {
			l.clock.Sleep(l.frame - spent)
		}
	}
}

// FPS is the frame rate measured over the last full second.
func (l *Loop) FPS() int {
	return l.fps
}

// Lag is the simulated time owed but not yet stepped, in seconds.
func (l *Loop) Lag() float64 {
	return l.lag
}

func (l *Loop) Steps() uint64 {
	return l.steps
}

// FixedStep is the simulated time of one step, in seconds.
func (l *Loop) FixedStep() float64 {
	return l.step
}
