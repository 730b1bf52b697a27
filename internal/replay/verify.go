package replay

import (
	"fmt"

	"termpong/internal/pong"
	"termpong/internal/rng"
)

// DivergenceError reports the first step at which a replay left the recorded
// trajectory.
type DivergenceError struct {
	Step   uint64
	Entity pong.EntityID
	Want   Body
	Got    Body
	Reason string
}

func (e *DivergenceError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("replay diverged at step %d: %s", e.Step, e.Reason)
	}
	return fmt.Sprintf("replay diverged at step %d: entity %d want pos=%v vel=%v, got pos=%v vel=%v",
		e.Step, e.Entity, e.Want.Pos, e.Want.Vel, e.Got.Pos, e.Got.Vel)
}

// Verify replays trace on a fresh session seeded from the trace header and
// compares every recorded frame bit for bit.
func Verify(trace []byte, p pong.Params) error {
	h, frames, err := Decode(trace)
	if err != nil {
		return err
	}
	if h.TickRate != p.TickRate {
		return fmt.Errorf("trace recorded at %d Hz, replaying at %d Hz", h.TickRate, p.TickRate)
	}

	s, err := pong.NewSession(p, rng.New(h.Seed), nil)
	if err != nil {
		return err
	}

	for _, f := range frames {
		s.Step(f.Keys)
		if s.Steps() != f.Step {
			return &DivergenceError{Step: f.Step, Entity: pong.NoEntity, Reason: fmt.Sprintf("replay is at step %d", s.Steps())}
		}
		if s.Scores() != f.Scores {
			return &DivergenceError{Step: f.Step, Entity: pong.NoEntity, Reason: fmt.Sprintf("scores %v, recorded %v", s.Scores(), f.Scores)}
		}
		for _, want := range f.Bodies {
			e := s.Entity(want.ID)
			if e == nil {
				return &DivergenceError{Step: f.Step, Entity: want.ID, Want: want, Reason: fmt.Sprintf("no entity %d", want.ID)}
			}
			got := Body{ID: e.ID, Pos: e.Pos, Vel: e.Vel}
			if got != want {
				return &DivergenceError{Step: f.Step, Entity: want.ID, Want: want, Got: got}
			}
		}
	}
	return nil
}
