package input

import (
	"time"

	"termpong/internal/pong"
)

// Tracker turns a stream of key presses into held-key state.
//
// Terminals report presses and auto-repeats but never releases, so a key
// counts as held until hold has passed without another press of it.
type Tracker struct {
	hold time.Duration
	last [numActions]time.Time
}

func NewTracker(hold time.Duration) *Tracker {
	return &Tracker{hold: hold}
}

func (t *Tracker) Press(a UiAction, now time.Time) {
	if a <= Unknown || a >= numActions {
		return
	}
	t.last[a] = now
}

func (t *Tracker) Release(a UiAction) {
	if a <= Unknown || a >= numActions {
		return
	}
	t.last[a] = time.Time{}
}

func (t *Tracker) ReleaseAll() {
	t.last = [numActions]time.Time{}
}

func (t *Tracker) Held(a UiAction, now time.Time) bool {
	if a <= Unknown || a >= numActions {
		return false
	}
	last := t.last[a]
	return !last.IsZero() && now.Sub(last) < t.hold
}

// Snapshot is the keystate for one simulation step.
func (t *Tracker) Snapshot(now time.Time) pong.Keystate {
	return pong.Keystate{
		Up:     t.Held(Up, now),
		Down:   t.Held(Down, now),
		Left:   t.Held(Left, now),
		Right:  t.Held(Right, now),
		Launch: t.Held(Launch, now),
		Up2:    t.Held(Up2, now),
		Down2:  t.Held(Down2, now),
	}
}
