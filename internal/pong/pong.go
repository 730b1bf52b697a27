package pong

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"termpong/internal/rng"
)

// Params are the tunables of the rule layer. Speeds are in game units per
// second.
type Params struct {
	TickRate        int
	BallSpeed       float32
	PaddleSpeed     float32
	AISpeed         float32
	LaunchThreshold float32
	TwoPlayer       bool
}

func DefaultParams() Params {
	return Params{
		TickRate:        60,
		BallSpeed:       0.5,
		PaddleSpeed:     0.3,
		AISpeed:         0.25,
		LaunchThreshold: 0.3,
	}
}

// FixedStep is the simulated time covered by one Step, in seconds.
func (p Params) FixedStep() float32 {
	return 1 / float32(p.TickRate)
}

// Validate reports every out-of-range parameter.
func (p Params) Validate() error {
	var errs []error
	if p.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick rate must be positive, got %d", p.TickRate))
	}
	if !(p.BallSpeed > 0) {
		errs = append(errs, fmt.Errorf("ball speed must be positive, got %v", p.BallSpeed))
	}
	if !(p.PaddleSpeed > 0) {
		errs = append(errs, fmt.Errorf("paddle speed must be positive, got %v", p.PaddleSpeed))
	}
	if !(p.AISpeed > 0) {
		errs = append(errs, fmt.Errorf("ai speed must be positive, got %v", p.AISpeed))
	}
	if !(p.LaunchThreshold > 0 && p.LaunchThreshold < 1) {
		errs = append(errs, fmt.Errorf("launch threshold must be in (0,1), got %v", p.LaunchThreshold))
	}
	return errors.Join(errs...)
}

// Session owns the entity roster and the score. It is not safe for
// concurrent use; the update loop is its only caller.
type Session struct {
	ID string

	params   Params
	entities []Entity
	ball     EntityID
	paddles  [2]EntityID
	scores   Scores
	debug    string
	steps    uint64

	rng   *rng.Rand
	audio AudioSink
	log   *slog.Logger
}

// NewSession builds the fixed roster. A nil r is seeded with zero and a nil
// audio sink gives a silent session.
func NewSession(p Params, r *rng.Rand, audio AudioSink) (*Session, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session parameters: %w", err)
	}
	if r == nil {
		r = rng.New(0)
	}
	if audio == nil {
		audio = silentSink{}
	}

	id := uuid.NewString()
	s := &Session{
		ID:      id,
		params:  p,
		ball:    NoEntity,
		paddles: [2]EntityID{NoEntity, NoEntity},
		rng:     r,
		audio:   audio,
		log:     slog.With("session", id),
	}
	if err := s.buildRoster(); err != nil {
		return nil, err
	}

	s.log.Info("session started", slog.Int("entities", len(s.entities)), slog.Bool("twoPlayer", p.TwoPlayer))
	return s, nil
}

func (s *Session) add(name string, pos, size Vector, color Color, flags Flags, b Behavior) (EntityID, error) {
	e, err := NewEntity(name, pos, size, color, flags, b)
	if err != nil {
		return NoEntity, err
	}
	e.ID = EntityID(len(s.entities))
	s.entities = append(s.entities, e)
	return e.ID, nil
}

// buildRoster lays out, in order: the centre line, the four walls, the ball
// and the two paddles. Collision pairs are visited in this order.
func (s *Session) buildRoster() error {
	grey := Color{R: 0.5, G: 0.5, B: 0.5}
	for i := 0; i < 21; i++ {
		pos := Vector{X: 0, Y: -0.5 + float32(i)*0.05}
		if _, err := s.add(fmt.Sprintf("separator%d", i), pos, Vector{X: 0.005, Y: 0.03}, grey, Display, Behavior{Kind: Decoration}); err != nil {
			return err
		}
	}

	sideWall := Vector{X: 0.1, Y: 1.0}
	endWall := Vector{X: 1.2, Y: 0.1}
	magenta := Color{R: 1.0, G: 0.5, B: 1.0}
	cyan := Color{R: 0.5, G: 1.0, B: 1.0}
	solid := Display | Physics

	walls := []struct {
		name  string
		pos   Vector
		size  Vector
		color Color
		b     Behavior
	}{
		{"leftwall", Vector{X: -0.5 - sideWall.X/2}, sideWall, magenta, Behavior{Kind: Wall, Side: LeftSide, Scoring: true}},
		{"rightwall", Vector{X: 0.5 + sideWall.X/2}, sideWall, magenta, Behavior{Kind: Wall, Side: RightSide, Scoring: true}},
		{"topwall", Vector{Y: -0.5 - endWall.Y/2}, endWall, cyan, Behavior{Kind: Wall}},
		{"bottomwall", Vector{Y: 0.5 + endWall.Y/2}, endWall, cyan, Behavior{Kind: Wall}},
	}
	for _, w := range walls {
		if _, err := s.add(w.name, w.pos, w.size, w.color, solid, w.b); err != nil {
			return err
		}
	}

	var err error
	s.ball, err = s.add("ball", Vector{}, Vector{X: 0.02, Y: 0.02}, Color{R: 1, G: 1, B: 1}, solid, Behavior{Kind: Ball})
	if err != nil {
		return err
	}

	paddle := Vector{X: 0.02, Y: 0.1}
	s.paddles[LeftSide], err = s.add("leftpaddle", Vector{X: -0.4}, paddle, Color{R: 1.0, G: 0.75, B: 0.5}, solid,
		Behavior{Kind: PlayerPaddle, Side: LeftSide})
	if err != nil {
		return err
	}

	rightKind := AIPaddle
	if s.params.TwoPlayer {
		rightKind = PlayerPaddle
	}
	s.paddles[RightSide], err = s.add("rightpaddle", Vector{X: 0.4}, paddle, Color{R: 0.5, G: 0.75, B: 1.0}, solid,
		Behavior{Kind: rightKind, Side: RightSide})
	return err
}

// Step advances the simulation by one fixed step: every update hook runs,
// then every physics entity is integrated, then every ordered pair of
// overlapping physics entities is handed to the first member's collision
// hook.
func (s *Session) Step(ks Keystate) {
	s.debug = ""
	for i := range s.entities {
		s.entities[i].InContact = false
	}

	for i := range s.entities {
		s.update(EntityID(i), ks)
	}

	dt := s.params.FixedStep()
	for i := range s.entities {
		e := &s.entities[i]
		if e.Has(Physics) {
			e.Pos = e.Pos.Add(e.Vel.Scale(dt))
		}
	}

	for i := range s.entities {
		if !s.entities[i].Has(Physics) {
			continue
		}
		for j := range s.entities {
			if i == j || !s.entities[j].Has(Physics) {
				continue
			}
			pv, ok := PenetrationVector(&s.entities[i], &s.entities[j])
			if !ok {
				continue
			}
			s.entities[i].Contact = pv
			s.entities[i].InContact = true
			s.collide(EntityID(i), EntityID(j), pv)
		}
	}

	s.steps++
}

// Reset puts the ball back at the centre at rest. Scores are untouched.
func (s *Session) Reset() {
	ball := &s.entities[s.ball]
	ball.Pos = Vector{}
	ball.Vel = Vector{}
	s.log.Debug("ball reset")
}

// Entities exposes the roster for rendering and inspection. Callers must not
// append to or reorder it.
func (s *Session) Entities() []Entity {
	return s.entities
}

// Entity returns the entity behind id, or nil for an unknown id.
func (s *Session) Entity(id EntityID) *Entity {
	if id < 0 || int(id) >= len(s.entities) {
		return nil
	}
	return &s.entities[id]
}

func (s *Session) BallID() EntityID {
	return s.ball
}

func (s *Session) PaddleID(side Side) EntityID {
	return s.paddles[side]
}

func (s *Session) Scores() Scores {
	return s.scores
}

func (s *Session) Debug() string {
	return s.debug
}

func (s *Session) Steps() uint64 {
	return s.steps
}

func (s *Session) Params() Params {
	return s.params
}
