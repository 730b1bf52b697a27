package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"golang.org/x/exp/rand"

	"termpong/internal/pong"
)

// synthesize builds the fallback sound for a cue. Noise is drawn from src so
// that a bank built from the same seed always holds the same samples.
func synthesize(cue pong.Cue, sr beep.SampleRate, src rand.Source) (beep.Streamer, error) {
	var s beep.Streamer
	switch cue {
	case pong.CueStart:
		low, err := tone(sr, 523.25, 60*time.Millisecond)
		if err != nil {
			return nil, err
		}
		high, err := tone(sr, 783.99, 90*time.Millisecond)
		if err != nil {
			return nil, err
		}
		s = beep.Seq(low, high)
	case pong.CueBounce:
		t, err := tone(sr, 880, 50*time.Millisecond)
		if err != nil {
			return nil, err
		}
		s = t
	case pong.CueLose:
		s = newNoiseBurst(sr, 300*time.Millisecond, rand.New(src))
	default:
		return nil, fmt.Errorf("no synth for cue %v", cue)
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: -2}, nil
}

func tone(sr beep.SampleRate, freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(sr, freq)
	if err != nil {
		return nil, fmt.Errorf("sine %vHz: %w", freq, err)
	}
	return beep.Take(sr.N(d), sine), nil
}

// noiseBurst is a decaying crackle over a low rumble.
type noiseBurst struct {
	sr    beep.SampleRate
	rnd   *rand.Rand
	pos   int
	total int
}

func newNoiseBurst(sr beep.SampleRate, d time.Duration, rnd *rand.Rand) *noiseBurst {
	return &noiseBurst{sr: sr, rnd: rnd, total: sr.N(d)}
}

func (n *noiseBurst) Stream(samples [][2]float64) (int, bool) {
	if n.pos >= n.total {
		return 0, false
	}
	i := 0
	for ; i < len(samples) && n.pos < n.total; i++ {
		t := float64(n.pos) / float64(n.sr)
		envelope := math.Exp(-t * 8)
		noise := n.rnd.Float64()*2 - 1
		rumble := 0.3 * math.Sin(2*math.Pi*80*t)

		v := envelope * (0.25*noise + rumble)
		samples[i][0] = v
		samples[i][1] = v
		n.pos++
	}
	return i, true
}

func (n *noiseBurst) Err() error {
	return nil
}
