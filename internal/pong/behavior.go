package pong

import "log/slog"

// Kind selects which update and collision rules an entity follows.
type Kind int

const (
	Decoration Kind = iota
	Ball
	Wall
	PlayerPaddle
	AIPaddle
)

func (k Kind) String() string {
	switch k {
	case Decoration:
		return "decoration"
	case Ball:
		return "ball"
	case Wall:
		return "wall"
	case PlayerPaddle:
		return "player-paddle"
	case AIPaddle:
		return "ai-paddle"
	}
	return "unknown"
}

// Behavior is attached to each entity at setup. Side is the half of the
// field the entity guards. Scoring only applies to walls: a scoring wall
// absorbs the ball and awards a point to the opposite side.
type Behavior struct {
	Kind    Kind
	Side    Side
	Scoring bool
}

func (s *Session) update(id EntityID, ks Keystate) {
	e := &s.entities[id]

	switch e.Behavior.Kind {
	case Ball:
		s.updateBall(e, ks)
	case PlayerPaddle:
		up, down := ks.Up, ks.Down
		if e.Behavior.Side == RightSide {
			up, down = ks.Up2, ks.Down2
		}
		switch {
		case up:
			e.Vel.Y = -s.params.PaddleSpeed
		case down:
			e.Vel.Y = s.params.PaddleSpeed
		default:
			e.Vel.Y = 0
		}
	case AIPaddle:
		s.updateAIPaddle(e)
	}
}

func (s *Session) updateBall(e *Entity, ks Keystate) {
	if ks.Launch && e.Vel.IsZero() {
		e.Vel = s.launchDirection().Scale(s.params.BallSpeed)
		s.audio.Play(CueStart)
		s.debug = "launch"
		s.log.Debug("ball launched", slog.Any("velocity", e.Vel))
	}

	if ks.Left {
		s.Reset()
	}

	if !e.Vel.IsZero() {
		e.Vel = e.Vel.Normalize().Scale(s.params.BallSpeed)
	}
}

// launchDirection draws directions until one leans far enough sideways.
// LaunchThreshold is validated to lie in (0,1) so the loop terminates.
func (s *Session) launchDirection() Vector {
	for {
		dir := Vector{
			X: s.rng.Fnext()*2 - 1,
			Y: s.rng.Fnext()*2 - 1,
		}.Normalize()
		if abs(dir.X) > s.params.LaunchThreshold {
			return dir
		}
	}
}

// The AI only chases the ball while it is heading towards the AI's side.
func (s *Session) updateAIPaddle(e *Entity) {
	ball := &s.entities[s.ball]

	incoming := ball.Vel.X > 0
	if e.Behavior.Side == LeftSide {
		incoming = ball.Vel.X < 0
	}
	if !incoming {
		e.Vel.Y = 0
		return
	}

	dy := ball.Pos.Y - e.Pos.Y
	if abs(dy) <= s.params.AISpeed*s.params.FixedStep() {
		e.Vel.Y = 0
		return
	}
	e.Vel.Y = sign(dy) * s.params.AISpeed
}

// collide runs self's collision rules against other. pv moves self out of
// other, so when the ball is other it has to travel along -pv.
func (s *Session) collide(self, other EntityID, pv Vector) {
	e := &s.entities[self]

	switch e.Behavior.Kind {
	case Wall:
		if other != s.ball {
			return
		}
		if e.Behavior.Scoring {
			s.score(e.Behavior.Side.Opponent())
			return
		}
		s.bounce(pv)
	case PlayerPaddle, AIPaddle:
		if other == s.ball {
			s.bounce(pv)
			s.audio.Play(CueBounce)
			return
		}
		// Anything else a paddle touches is a wall; paddles never bounce.
		e.Pos = e.Pos.Add(pv)
	}
}

// bounce pushes the ball out of the surface and reflects the velocity
// component on the contact axis.
func (s *Session) bounce(pv Vector) {
	ball := &s.entities[s.ball]
	ball.Pos = ball.Pos.Sub(pv)
	if pv.X != 0 {
		ball.Vel.X = -ball.Vel.X
	}
	if pv.Y != 0 {
		ball.Vel.Y = -ball.Vel.Y
	}
}

func (s *Session) score(side Side) {
	s.scores[side]++
	s.Reset()
	s.audio.Play(CueLose)
	s.debug = side.String() + " scores"
	s.log.Info("point scored",
		slog.String("side", side.String()),
		slog.Int("left", s.scores[LeftSide]),
		slog.Int("right", s.scores[RightSide]))
}
