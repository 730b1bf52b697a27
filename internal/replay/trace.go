// Package replay records a session's inputs and resulting kinematics and
// replays them to check that a run is reproducible.
//
// A trace is a protobuf message built with protowire:
//
//	message Trace {
//	  Header header = 1;
//	  repeated Frame frames = 2;
//	}
//	message Header { string session = 1; fixed64 seed = 2; uint32 tick_rate = 3; }
//	message Frame {
//	  uint64 step = 1;
//	  uint32 keys = 2;
//	  repeated Body bodies = 3;
//	  uint32 left_score = 4;
//	  uint32 right_score = 5;
//	}
//	message Body { uint32 id = 1; float px = 2; float py = 3; float vx = 4; float vy = 5; }
package replay

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"termpong/internal/pong"
)

var ErrMalformed = errors.New("malformed trace")

type Header struct {
	SessionID string
	Seed      uint64
	TickRate  int
}

type Body struct {
	ID  pong.EntityID
	Pos pong.Vector
	Vel pong.Vector
}

type Frame struct {
	Step   uint64
	Keys   pong.Keystate
	Bodies []Body
	Scores pong.Scores
}

// Recorder appends one frame per simulation step.
type Recorder struct {
	buf     []byte
	scratch []byte
	body    []byte
	steps   int
}

func NewRecorder(h Header) *Recorder {
	var hb []byte
	hb = protowire.AppendTag(hb, 1, protowire.BytesType)
	hb = protowire.AppendString(hb, h.SessionID)
	hb = protowire.AppendTag(hb, 2, protowire.Fixed64Type)
	hb = protowire.AppendFixed64(hb, h.Seed)
	hb = protowire.AppendTag(hb, 3, protowire.VarintType)
	hb = protowire.AppendVarint(hb, uint64(h.TickRate))

	r := &Recorder{}
	r.buf = protowire.AppendTag(r.buf, 1, protowire.BytesType)
	r.buf = protowire.AppendBytes(r.buf, hb)
	return r
}

// Record captures the state of s after a step driven by ks.
func (r *Recorder) Record(ks pong.Keystate, s *pong.Session) {
	f := r.scratch[:0]
	f = protowire.AppendTag(f, 1, protowire.VarintType)
	f = protowire.AppendVarint(f, s.Steps())
	f = protowire.AppendTag(f, 2, protowire.VarintType)
	f = protowire.AppendVarint(f, uint64(packKeys(ks)))

	entities := s.Entities()
	for i := range entities {
		e := &entities[i]
		if !e.Has(pong.Physics) {
			continue
		}
		f = protowire.AppendTag(f, 3, protowire.BytesType)
		f = protowire.AppendBytes(f, r.appendBody(e))
	}

	scores := s.Scores()
	f = protowire.AppendTag(f, 4, protowire.VarintType)
	f = protowire.AppendVarint(f, uint64(scores[pong.LeftSide]))
	f = protowire.AppendTag(f, 5, protowire.VarintType)
	f = protowire.AppendVarint(f, uint64(scores[pong.RightSide]))

	r.buf = protowire.AppendTag(r.buf, 2, protowire.BytesType)
	r.buf = protowire.AppendBytes(r.buf, f)
	r.scratch = f
	r.steps++
}

func (r *Recorder) appendBody(e *pong.Entity) []byte {
	b := r.body[:0]
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(e.ID))
	for i, v := range []float32{e.Pos.X, e.Pos.Y, e.Vel.X, e.Vel.Y} {
		b = protowire.AppendTag(b, protowire.Number(i+2), protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, math.Float32bits(v))
	}
	r.body = b
	return b
}

func (r *Recorder) Bytes() []byte {
	return r.buf
}

func (r *Recorder) Steps() int {
	return r.steps
}

// Digest is the hex SHA-256 of the encoded trace.
func (r *Recorder) Digest() string {
	return Digest(r.buf)
}

func Digest(trace []byte) string {
	sum := sha256.Sum256(trace)
	return hex.EncodeToString(sum[:])
}

const (
	keyUp = 1 << iota
	keyDown
	keyLeft
	keyRight
	keyLaunch
	keyUp2
	keyDown2
)

func packKeys(ks pong.Keystate) uint32 {
	var k uint32
	set := func(bit uint32, on bool) {
		if on {
			k |= bit
		}
	}
	set(keyUp, ks.Up)
	set(keyDown, ks.Down)
	set(keyLeft, ks.Left)
	set(keyRight, ks.Right)
	set(keyLaunch, ks.Launch)
	set(keyUp2, ks.Up2)
	set(keyDown2, ks.Down2)
	return k
}

func unpackKeys(k uint32) pong.Keystate {
	return pong.Keystate{
		Up:     k&keyUp != 0,
		Down:   k&keyDown != 0,
		Left:   k&keyLeft != 0,
		Right:  k&keyRight != 0,
		Launch: k&keyLaunch != 0,
		Up2:    k&keyUp2 != 0,
		Down2:  k&keyDown2 != 0,
	}
}

// Decode parses a whole trace.
func Decode(trace []byte) (Header, []Frame, error) {
	var (
		h      Header
		frames []Frame
	)
	err := walk(trace, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ != protowire.BytesType {
			return skip(num, typ, b)
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return n, nil
		}
		switch num {
		case 1:
			hdr, err := decodeHeader(v)
			if err != nil {
				return 0, err
			}
			h = hdr
		case 2:
			f, err := decodeFrame(v)
			if err != nil {
				return 0, fmt.Errorf("frame %d: %w", len(frames), err)
			}
			frames = append(frames, f)
		}
		return n, nil
	})
	if err != nil {
		return Header{}, nil, err
	}
	return h, frames, nil
}

func decodeHeader(b []byte) (Header, error) {
	var h Header
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			h.SessionID = v
			return n, nil
		case num == 2 && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			h.Seed = v
			return n, nil
		case num == 3 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			h.TickRate = int(v)
			return n, nil
		}
		return skip(num, typ, b)
	})
	return h, err
}

func decodeFrame(b []byte) (Frame, error) {
	var f Frame
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			f.Step = v
			return n, nil
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			f.Keys = unpackKeys(uint32(v))
			return n, nil
		case num == 3 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			body, err := decodeBody(v)
			if err != nil {
				return 0, err
			}
			f.Bodies = append(f.Bodies, body)
			return n, nil
		case (num == 4 || num == 5) && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			f.Scores[num-4] = int(v)
			return n, nil
		}
		return skip(num, typ, b)
	})
	return f, err
}

func decodeBody(b []byte) (Body, error) {
	var (
		body   Body
		fields [4]float32
	)
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			body.ID = pong.EntityID(v)
			return n, nil
		case num >= 2 && num <= 5 && typ == protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			fields[num-2] = math.Float32frombits(v)
			return n, nil
		}
		return skip(num, typ, b)
	})
	body.Pos = pong.Vector{X: fields[0], Y: fields[1]}
	body.Vel = pong.Vector{X: fields[2], Y: fields[3]}
	return body, err
}

// walk calls fn for every field in b. fn consumes the field value and returns
// the number of bytes used, or a negative protowire error code.
func walk(b []byte, fn func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		m, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if m < 0 {
			return fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(m))
		}
		b = b[m:]
	}
	return nil
}

func skip(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	return protowire.ConsumeFieldValue(num, typ, b), nil
}
