package ansii

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

type ANSI string

const (
	reset     ANSI = "\033[0m"
	plain     ANSI = ""
	bold      ANSI = "\033[1m"
	underline ANSI = "\033[4m"
	red       ANSI = "\033[31m"
	green     ANSI = "\033[32m"
	yellow    ANSI = "\033[33m"
	blue      ANSI = "\033[34m"
	purple    ANSI = "\033[35m"
	cyan      ANSI = "\033[36m"
	white     ANSI = "\033[37m"
)

type style struct {
	Reset     ANSI
	Plain     ANSI
	Bold      ANSI
	Underline ANSI
}

type color struct {
	Red    ANSI
	Green  ANSI
	Yellow ANSI
	Blue   ANSI
	Purple ANSI
	Cyan   ANSI
	White  ANSI
}

var (
	Styles = style{Bold: bold, Underline: underline, Reset: reset, Plain: plain}
	Colors = color{Red: red, Green: green, Yellow: yellow, Blue: blue, Purple: purple, Cyan: cyan, White: white}
)

var (
	ErrNotTerminal = errors.New("stdout is not a terminal")
	ErrTooSmall    = errors.New("terminal is too small")
)

// Smallest terminal the play field is still readable in.
const (
	MinWidth  = 40
	MinHeight = 20
)

// Probe checks that f is a terminal large enough to play in and returns its
// size.
func Probe(f *os.File) (width, height int, err error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0, 0, ErrNotTerminal
	}
	width, height, err = term.GetSize(fd)
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w", err)
	}
	if width < MinWidth || height < MinHeight {
		return width, height, fmt.Errorf("%w: %dx%d, need at least %dx%d", ErrTooSmall, width, height, MinWidth, MinHeight)
	}
	return width, height, nil
}

// Paint wraps s in the given style and resets afterwards.
func Paint(s string, styles ...ANSI) string {
	var b strings.Builder
	for _, st := range styles {
		b.WriteString(string(st))
	}
	b.WriteString(s)
	if len(styles) > 0 {
		b.WriteString(string(Styles.Reset))
	}
	return b.String()
}

// DrawBox writes lines inside a box drawn with the given style. Lines are
// padded to the widest one.
func DrawBox(builder *strings.Builder, lines []string, style ANSI) {
	width := 0
	for _, l := range lines {
		width = max(width, visibleLen(l))
	}

	edge := "+" + strings.Repeat("-", width+2) + "+"
	builder.WriteString(Paint(edge, style) + "\n")
	for _, l := range lines {
		pad := strings.Repeat(" ", width-visibleLen(l))
		builder.WriteString(Paint("|", style) + " " + l + pad + " " + Paint("|", style) + "\n")
	}
	builder.WriteString(Paint(edge, style) + "\n")
}

// visibleLen counts runes outside escape sequences.
func visibleLen(s string) int {
	n := 0
	inEscape := false
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			if r >= '@' && r <= '~' && r != '[' {
				inEscape = false
			}
		default:
			n++
		}
	}
	return n
}

// Scoreboard renders the final score with the leader highlighted.
func Scoreboard(left, right int, leftName, rightName string) string {
	leftStyle, rightStyle := Colors.White, Colors.White
	switch {
	case left > right:
		leftStyle = Colors.Green
		rightStyle = Colors.Red
	case right > left:
		leftStyle = Colors.Red
		rightStyle = Colors.Green
	}

	var b strings.Builder
	DrawBox(&b, []string{
		Paint("FINAL SCORE", Styles.Bold),
		"",
		Paint(fmt.Sprintf("%-8s %3d", leftName, left), leftStyle),
		Paint(fmt.Sprintf("%-8s %3d", rightName, right), rightStyle),
	}, Colors.Cyan)
	return b.String()
}
