package input

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"termpong/internal/pong"
)

func TestProcessInput(t *testing.T) {
	tests := []struct {
		in   rune
		want UiAction
	}{
		{'q', Quit},
		{'Q', Quit},
		{'w', Up2},
		{'S', Down2},
		{' ', Launch},
		{'x', Unknown},
		{'1', Unknown},
	}
	for _, tt := range tests {
		if got := ProcessInput(tt.in); got != tt.want {
			t.Errorf("ProcessInput(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestProcessKey(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want UiAction
	}{
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), Up},
		{tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), Down},
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), Left},
		{tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), Right},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), Quit},
		{tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), Quit},
		{tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), Launch},
		{tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), Quit},
		{tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), Unknown},
	}
	for _, tt := range tests {
		if got := ProcessKey(tt.ev); got != tt.want {
			t.Errorf("ProcessKey(%v): expected %v, got %v", tt.ev.Name(), tt.want, got)
		}
	}
}

func TestTrackerHoldWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(200 * time.Millisecond)

	if tr.Held(Up, now) {
		t.Fatal("nothing pressed yet")
	}

	tr.Press(Up, now)
	if !tr.Held(Up, now.Add(199*time.Millisecond)) {
		t.Error("key must stay held inside the window")
	}
	if tr.Held(Up, now.Add(200*time.Millisecond)) {
		t.Error("key must be released once the window has passed")
	}

	// An auto-repeat extends the hold.
	tr.Press(Up, now.Add(150*time.Millisecond))
	if !tr.Held(Up, now.Add(300*time.Millisecond)) {
		t.Error("repeat press should extend the hold")
	}

	tr.Release(Up)
	if tr.Held(Up, now.Add(160*time.Millisecond)) {
		t.Error("explicit release must clear the key")
	}
}

func TestTrackerSnapshot(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(time.Second)

	tr.Press(Down, now)
	tr.Press(Launch, now)
	tr.Press(Up2, now)
	tr.Press(Quit, now)
	tr.Press(Unknown, now)

	want := pong.Keystate{Down: true, Launch: true, Up2: true}
	if got := tr.Snapshot(now); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	tr.ReleaseAll()
	if got := tr.Snapshot(now); got != (pong.Keystate{}) {
		t.Errorf("expected empty keystate after ReleaseAll, got %+v", got)
	}
}
