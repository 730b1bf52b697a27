package pong

import "math"

// Vector is a point or displacement in game space. The play field is the
// unit square centred on the origin with y growing downwards.
type Vector struct {
	X float32
	Y float32
}

func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vector) Scale(f float32) Vector {
	return Vector{X: v.X * f, Y: v.Y * f}
}

func (v Vector) Neg() Vector {
	return Vector{X: -v.X, Y: -v.Y}
}

func (v Vector) Half() Vector {
	return Vector{X: v.X / 2, Y: v.Y / 2}
}

func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vector) Length() float32 {
	return float32(math.Sqrt(float64(v.X)*float64(v.X) + float64(v.Y)*float64(v.Y)))
}

// Normalize returns the unit vector along v, or the zero vector when v is zero.
func (v Vector) Normalize() Vector {
	l := v.Length()
	if l == 0 {
		return Vector{}
	}
	return Vector{X: v.X / l, Y: v.Y / l}
}

// Color is an RGB triple with components in [0,1].
type Color struct {
	R float32
	G float32
	B float32
}

// Keystate is the input snapshot handed to every update hook for one step.
type Keystate struct {
	Up     bool
	Down   bool
	Left   bool
	Right  bool
	Launch bool

	// Second player's paddle, only read in two player mode.
	Up2   bool
	Down2 bool
}

type Side int

const (
	LeftSide Side = iota
	RightSide
)

func (s Side) Opponent() Side {
	if s == LeftSide {
		return RightSide
	}
	return LeftSide
}

func (s Side) String() string {
	if s == LeftSide {
		return "left"
	}
	return "right"
}

// Scores is indexed by Side.
type Scores [2]int

// Cue names a sound the rules ask the audio sink to play.
type Cue int

const (
	CueStart Cue = iota
	CueBounce
	CueLose
)

func (c Cue) String() string {
	switch c {
	case CueStart:
		return "start"
	case CueBounce:
		return "bounce"
	case CueLose:
		return "lose"
	}
	return "unknown"
}

// AudioSink accepts fire-and-forget sound requests. Implementations must not
// block the caller until playback completes.
type AudioSink interface {
	Play(cue Cue)
}

type silentSink struct{}

func (silentSink) Play(Cue) {}
