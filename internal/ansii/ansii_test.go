package ansii

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestPaint(t *testing.T) {
	if got := Paint("hi"); got != "hi" {
		t.Errorf("unstyled text should pass through, got %q", got)
	}
	if got, want := Paint("hi", Styles.Bold, Colors.Red), "\033[1m\033[31mhi\033[0m"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestVisibleLen(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{Paint("abc", Colors.Green), 3},
		{Paint("█", Styles.Bold) + "x", 2},
	}
	for _, tt := range tests {
		if got := visibleLen(tt.in); got != tt.want {
			t.Errorf("visibleLen(%q): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestDrawBoxPadsLines(t *testing.T) {
	var b strings.Builder
	DrawBox(&b, []string{"a", Paint("abc", Colors.Blue)}, Styles.Plain)

	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), lines)
	}
	for i, l := range lines {
		if got := visibleLen(l); got != 7 {
			t.Errorf("line %d: expected width 7, got %d (%q)", i, got, l)
		}
	}
}

func TestScoreboard(t *testing.T) {
	out := Scoreboard(7, 3, "player", "computer")

	if !strings.Contains(out, "FINAL SCORE") {
		t.Error("missing title")
	}
	if !strings.Contains(out, Paint("player     7", Colors.Green)) {
		t.Errorf("leader should be green:\n%s", out)
	}
	if !strings.Contains(out, Paint("computer   3", Colors.Red)) {
		t.Errorf("trailing side should be red:\n%s", out)
	}

	tie := Scoreboard(2, 2, "left", "right")
	if strings.Contains(tie, string(Colors.Green)) {
		t.Error("a tie has no leader")
	}
}

func TestProbeRejectsNonTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, _, err := Probe(f); !errors.Is(err, ErrNotTerminal) {
		t.Errorf("expected ErrNotTerminal, got %v", err)
	}
}
