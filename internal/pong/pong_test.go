package pong

import (
	"errors"
	"math"
	"testing"

	"termpong/internal/rng"
)

type recordingSink struct {
	cues []Cue
}

func (r *recordingSink) Play(c Cue) {
	r.cues = append(r.cues, c)
}

func (r *recordingSink) count(c Cue) int {
	n := 0
	for _, got := range r.cues {
		if got == c {
			n++
		}
	}
	return n
}

func newTestSession(t *testing.T, p Params) (*Session, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	s, err := NewSession(p, rng.New(1), sink)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s, sink
}

func near(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func entityByName(t *testing.T, s *Session, name string) *Entity {
	t.Helper()
	for i := range s.entities {
		if s.entities[i].Name == name {
			return &s.entities[i]
		}
	}
	t.Fatalf("no entity named %q", name)
	return nil
}

func TestRoster(t *testing.T) {
	s, _ := newTestSession(t, DefaultParams())

	if got := len(s.Entities()); got != 28 {
		t.Fatalf("expected 28 entities, got %d", got)
	}

	for i, e := range s.Entities() {
		if e.ID != EntityID(i) {
			t.Errorf("entity %q: expected id %d, got %d", e.Name, i, e.ID)
		}
		if e.Color != e.OrigColor {
			t.Errorf("entity %q: original colour not preserved", e.Name)
		}
	}

	ball := s.Entity(s.BallID())
	if ball == nil || ball.Behavior.Kind != Ball || !ball.Has(Physics|Display) {
		t.Fatalf("ball handle does not point at a physics ball: %+v", ball)
	}
	if k := s.Entity(s.PaddleID(LeftSide)).Behavior.Kind; k != PlayerPaddle {
		t.Errorf("left paddle: expected player paddle, got %v", k)
	}
	if k := s.Entity(s.PaddleID(RightSide)).Behavior.Kind; k != AIPaddle {
		t.Errorf("right paddle: expected ai paddle, got %v", k)
	}
	if s.Entity(NoEntity) != nil || s.Entity(EntityID(len(s.Entities()))) != nil {
		t.Error("out of range ids must resolve to nil")
	}

	sep := entityByName(t, s, "separator0")
	if sep.Has(Physics) {
		t.Error("separators must not take part in physics")
	}
}

func TestTwoPlayerRoster(t *testing.T) {
	p := DefaultParams()
	p.TwoPlayer = true
	s, _ := newTestSession(t, p)

	right := s.Entity(s.PaddleID(RightSide))
	if right.Behavior.Kind != PlayerPaddle {
		t.Fatalf("expected player paddle on the right, got %v", right.Behavior.Kind)
	}

	s.Step(Keystate{Up2: true})
	if right.Vel.Y != -p.PaddleSpeed {
		t.Errorf("expected right paddle to move up at %v, got %v", -p.PaddleSpeed, right.Vel.Y)
	}
	if left := s.Entity(s.PaddleID(LeftSide)); left.Vel.Y != 0 {
		t.Errorf("left paddle must ignore the second player's keys, got %v", left.Vel.Y)
	}
}

func TestNewEntityRejectsBadSize(t *testing.T) {
	sizes := []Vector{{X: 0, Y: 1}, {X: 1, Y: 0}, {X: -1, Y: 1}, {X: float32(math.NaN()), Y: 1}}
	for _, size := range sizes {
		_, err := NewEntity("bad", Vector{}, size, Color{}, Display, Behavior{})
		if !errors.Is(err, ErrInvalidSize) {
			t.Errorf("size %+v: expected ErrInvalidSize, got %v", size, err)
		}
	}
}

func TestNewSessionRejectsBadParams(t *testing.T) {
	mutations := map[string]func(*Params){
		"tick rate":       func(p *Params) { p.TickRate = 0 },
		"ball speed":      func(p *Params) { p.BallSpeed = -1 },
		"paddle speed":    func(p *Params) { p.PaddleSpeed = 0 },
		"ai speed":        func(p *Params) { p.AISpeed = 0 },
		"launch too low":  func(p *Params) { p.LaunchThreshold = 0 },
		"launch too high": func(p *Params) { p.LaunchThreshold = 1 },
	}
	for name, mutate := range mutations {
		p := DefaultParams()
		mutate(&p)
		if _, err := NewSession(p, nil, nil); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestLaunch(t *testing.T) {
	p := DefaultParams()
	s, sink := newTestSession(t, p)
	ball := s.Entity(s.BallID())

	s.Step(Keystate{})
	if !ball.Vel.IsZero() {
		t.Fatalf("ball must stay at rest without launch input, got %+v", ball.Vel)
	}

	s.Step(Keystate{Launch: true})
	if ball.Vel.IsZero() {
		t.Fatal("ball did not launch")
	}
	if !near(ball.Vel.Length(), p.BallSpeed, 1e-5) {
		t.Errorf("expected launch speed %v, got %v", p.BallSpeed, ball.Vel.Length())
	}
	if dir := ball.Vel.Normalize(); abs(dir.X) <= p.LaunchThreshold {
		t.Errorf("launch direction %+v is too steep", dir)
	}
	if s.Debug() != "launch" {
		t.Errorf("expected debug text %q, got %q", "launch", s.Debug())
	}

	before := ball.Vel
	s.Step(Keystate{Launch: true})
	if !near(ball.Vel.X, before.X, 1e-6) || !near(ball.Vel.Y, before.Y, 1e-6) {
		t.Errorf("launch input while moving must not relaunch: %+v -> %+v", before, ball.Vel)
	}
	if n := sink.count(CueStart); n != 1 {
		t.Errorf("expected one start cue, got %d", n)
	}
}

func TestLeftKeyResetsBall(t *testing.T) {
	s, _ := newTestSession(t, DefaultParams())
	ball := s.Entity(s.BallID())

	s.Step(Keystate{Launch: true})
	s.Step(Keystate{})
	s.Step(Keystate{Left: true})

	// Integration still runs after the hook, but from rest.
	if !ball.Pos.IsZero() || !ball.Vel.IsZero() {
		t.Errorf("expected ball at rest in the centre, got pos %+v vel %+v", ball.Pos, ball.Vel)
	}
}

func TestBallSpeedStaysConstant(t *testing.T) {
	p := DefaultParams()
	s, _ := newTestSession(t, p)
	ball := s.Entity(s.BallID())

	for i := 0; i < 3000; i++ {
		s.Step(Keystate{Launch: true})
		if ball.Vel.IsZero() {
			continue
		}
		if !near(ball.Vel.Length(), p.BallSpeed, 1e-5) {
			t.Fatalf("step %d: expected speed %v, got %v", i, p.BallSpeed, ball.Vel.Length())
		}
	}
}

func TestScoringLeftWall(t *testing.T) {
	s, sink := newTestSession(t, DefaultParams())
	ball := s.Entity(s.BallID())
	ball.Pos = Vector{X: -0.48, Y: 0.3}
	ball.Vel = Vector{X: -0.5}

	for i := 0; i < 10 && s.Scores() == (Scores{}); i++ {
		s.Step(Keystate{})
	}

	if got := s.Scores(); got != (Scores{0, 1}) {
		t.Fatalf("expected right player to score once, got %v", got)
	}
	if !ball.Pos.IsZero() || !ball.Vel.IsZero() {
		t.Errorf("expected ball reset, got pos %+v vel %+v", ball.Pos, ball.Vel)
	}
	if n := sink.count(CueLose); n != 1 {
		t.Errorf("expected one lose cue, got %d", n)
	}
	if s.Debug() != "right scores" {
		t.Errorf("unexpected debug text %q", s.Debug())
	}
}

func TestScoringRightWall(t *testing.T) {
	s, sink := newTestSession(t, DefaultParams())
	ball := s.Entity(s.BallID())
	ball.Pos = Vector{X: 0.48, Y: 0.3}
	ball.Vel = Vector{X: 0.5}

	for i := 0; i < 10 && s.Scores() == (Scores{}); i++ {
		s.Step(Keystate{})
	}

	if got := s.Scores(); got != (Scores{1, 0}) {
		t.Fatalf("expected left player to score once, got %v", got)
	}
	if !ball.Pos.IsZero() || !ball.Vel.IsZero() {
		t.Errorf("expected ball reset, got pos %+v vel %+v", ball.Pos, ball.Vel)
	}
	if n := sink.count(CueLose); n != 1 {
		t.Errorf("expected one lose cue, got %d", n)
	}
}

func TestResetKeepsScores(t *testing.T) {
	s, _ := newTestSession(t, DefaultParams())
	s.scores = Scores{3, 4}
	ball := s.Entity(s.BallID())
	ball.Pos = Vector{X: 0.2, Y: 0.1}
	ball.Vel = Vector{X: 0.5}

	s.Reset()

	if s.Scores() != (Scores{3, 4}) {
		t.Errorf("reset changed scores: %v", s.Scores())
	}
	if !ball.Pos.IsZero() || !ball.Vel.IsZero() {
		t.Errorf("expected ball at rest in the centre, got pos %+v vel %+v", ball.Pos, ball.Vel)
	}
}

func TestTopWallBounce(t *testing.T) {
	s, sink := newTestSession(t, DefaultParams())
	ball := s.Entity(s.BallID())
	top := entityByName(t, s, "topwall")
	ball.Vel = Vector{X: 0.3, Y: -0.4}

	var vxBefore float32
	bounced := false
	for i := 0; i < 300; i++ {
		vxBefore = ball.Vel.X
		s.Step(Keystate{})
		if ball.Vel.Y > 0 {
			bounced = true
			break
		}
	}

	if !bounced {
		t.Fatal("ball never bounced off the top wall")
	}
	if !near(ball.Vel.X, vxBefore, 1e-6) {
		t.Errorf("horizontal velocity changed on bounce: %v -> %v", vxBefore, ball.Vel.X)
	}
	if !top.InContact {
		t.Error("top wall should record the contact")
	}
	if top.Contact.X != 0 || top.Contact.Y == 0 {
		t.Errorf("expected a vertical contact vector, got %+v", top.Contact)
	}
	if pv, ok := PenetrationVector(ball, top); ok && abs(pv.Y) > 1e-6 {
		t.Errorf("ball left inside the top wall by %+v", pv)
	}
	if s.Scores() != (Scores{}) || len(sink.cues) != 0 {
		t.Errorf("wall bounce must not score or play sounds: scores %v cues %v", s.Scores(), sink.cues)
	}
}

func TestPaddleBounce(t *testing.T) {
	s, sink := newTestSession(t, DefaultParams())
	ball := s.Entity(s.BallID())
	ball.Pos = Vector{X: -0.36}
	ball.Vel = Vector{X: -0.5}

	for i := 0; i < 20 && ball.Vel.X < 0; i++ {
		s.Step(Keystate{})
	}

	if ball.Vel.X <= 0 {
		t.Fatalf("ball did not bounce off the left paddle, vel %+v", ball.Vel)
	}
	if ball.Vel.Y != 0 {
		t.Errorf("head-on hit must keep the ball horizontal, got %+v", ball.Vel)
	}
	if n := sink.count(CueBounce); n != 1 {
		t.Errorf("expected one bounce cue, got %d", n)
	}
	if s.Scores() != (Scores{}) {
		t.Errorf("paddle hit must not score, got %v", s.Scores())
	}
}

func TestPlayerPaddleVelocity(t *testing.T) {
	p := DefaultParams()
	s, _ := newTestSession(t, p)
	paddle := s.Entity(s.PaddleID(LeftSide))

	tests := []struct {
		ks   Keystate
		want float32
	}{
		{Keystate{Up: true}, -p.PaddleSpeed},
		{Keystate{Down: true}, p.PaddleSpeed},
		{Keystate{}, 0},
		{Keystate{Up: true, Down: true}, -p.PaddleSpeed},
	}
	for _, tt := range tests {
		s.Step(tt.ks)
		if paddle.Vel.Y != tt.want {
			t.Errorf("keys %+v: expected vy %v, got %v", tt.ks, tt.want, paddle.Vel.Y)
		}
		if paddle.Vel.X != 0 {
			t.Errorf("paddle gained horizontal velocity %v", paddle.Vel.X)
		}
	}
}

func TestPaddleStaysInsideTopWall(t *testing.T) {
	s, _ := newTestSession(t, DefaultParams())
	paddle := s.Entity(s.PaddleID(LeftSide))
	top := entityByName(t, s, "topwall")

	for i := 0; i < 240; i++ {
		s.Step(Keystate{Up: true})
		if pv, ok := PenetrationVector(paddle, top); ok && (abs(pv.X) > 1e-6 || abs(pv.Y) > 1e-6) {
			t.Fatalf("step %d: paddle still inside the top wall by %+v", i, pv)
		}
	}

	wantY := float32(-0.5 + 0.05)
	if !near(paddle.Pos.Y, wantY, 1e-4) {
		t.Errorf("expected paddle resting against the wall at %v, got %v", wantY, paddle.Pos.Y)
	}
}

func TestPaddleStaysInsideBottomWall(t *testing.T) {
	s, _ := newTestSession(t, DefaultParams())
	paddle := s.Entity(s.PaddleID(LeftSide))
	bottom := entityByName(t, s, "bottomwall")

	for i := 0; i < 240; i++ {
		s.Step(Keystate{Down: true})
		if pv, ok := PenetrationVector(paddle, bottom); ok && (abs(pv.X) > 1e-6 || abs(pv.Y) > 1e-6) {
			t.Fatalf("step %d: paddle still inside the bottom wall by %+v", i, pv)
		}
	}
	if !near(paddle.Pos.Y, 0.45, 1e-4) {
		t.Errorf("expected paddle resting against the wall at 0.45, got %v", paddle.Pos.Y)
	}
}

func TestAIPaddleTracksIncomingBall(t *testing.T) {
	p := DefaultParams()
	s, _ := newTestSession(t, p)
	ai := s.Entity(s.PaddleID(RightSide))
	ball := s.Entity(s.BallID())

	ball.Pos = Vector{X: 0, Y: 0.2}
	ball.Vel = Vector{X: 0.3, Y: 0.4}
	s.Step(Keystate{})
	if ai.Vel.Y != p.AISpeed {
		t.Errorf("incoming ball below: expected vy %v, got %v", p.AISpeed, ai.Vel.Y)
	}

	ball.Pos = Vector{X: 0, Y: -0.2}
	ball.Vel = Vector{X: 0.3, Y: -0.4}
	s.Step(Keystate{})
	if ai.Vel.Y != -p.AISpeed {
		t.Errorf("incoming ball above: expected vy %v, got %v", -p.AISpeed, ai.Vel.Y)
	}

	ball.Pos = Vector{X: 0, Y: 0.2}
	ball.Vel = Vector{X: -0.3, Y: 0.4}
	s.Step(Keystate{})
	if ai.Vel.Y != 0 {
		t.Errorf("outgoing ball: expected the ai to hold still, got vy %v", ai.Vel.Y)
	}

	ball.Pos = Vector{}
	ball.Vel = Vector{}
	s.Step(Keystate{})
	if ai.Vel.Y != 0 {
		t.Errorf("ball at rest: expected the ai to hold still, got vy %v", ai.Vel.Y)
	}
}

func TestDeterministicTrajectory(t *testing.T) {
	inputs := func(i int) Keystate {
		return Keystate{
			Launch: i%97 == 3,
			Up:     (i/40)%3 == 0,
			Down:   (i/40)%3 == 1,
		}
	}

	a, _ := NewSession(DefaultParams(), rng.New(77), nil)
	b, _ := NewSession(DefaultParams(), rng.New(77), nil)

	for i := 0; i < 5000; i++ {
		ks := inputs(i)
		a.Step(ks)
		b.Step(ks)

		ea, eb := a.Entities(), b.Entities()
		for j := range ea {
			if ea[j].Pos != eb[j].Pos || ea[j].Vel != eb[j].Vel {
				t.Fatalf("step %d entity %q diverged: %+v/%+v vs %+v/%+v",
					i, ea[j].Name, ea[j].Pos, ea[j].Vel, eb[j].Pos, eb[j].Vel)
			}
		}
		if a.Scores() != b.Scores() {
			t.Fatalf("step %d: scores diverged %v vs %v", i, a.Scores(), b.Scores())
		}
	}
	if a.Steps() != 5000 {
		t.Errorf("expected 5000 steps, got %d", a.Steps())
	}
}

func TestVectorNormalize(t *testing.T) {
	if got := (Vector{}).Normalize(); !got.IsZero() {
		t.Errorf("zero vector must normalize to zero, got %+v", got)
	}
	v := Vector{X: 3, Y: -4}.Normalize()
	if !near(v.X, 0.6, 1e-6) || !near(v.Y, -0.8, 1e-6) {
		t.Errorf("expected (0.6,-0.8), got %+v", v)
	}
}
