// Package audio plays the game's sound cues through the system speaker.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"termpong/internal/pong"
)

// Speaker is a pong.AudioSink. Every cue is mixed into a single stream so
// overlapping sounds never wait for each other.
type Speaker struct {
	mu          sync.Mutex
	bank        *Bank
	mixer       *beep.Mixer
	initialized bool
	muted       bool
}

var _ pong.AudioSink = (*Speaker)(nil)

func NewSpeaker(bank *Bank) *Speaker {
	return &Speaker{
		bank:  bank,
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the audio device. On failure the speaker stays silent and
// Play becomes a no-op.
func (s *Speaker) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	sr := s.bank.Format().SampleRate
	if err := speaker.Init(sr, sr.N(100*time.Millisecond)); err != nil {
		return err
	}

	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// Play queues the cue and returns immediately.
func (s *Speaker) Play(cue pong.Cue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized || s.muted {
		return
	}
	st := s.bank.Streamer(cue)
	if st == nil {
		return
	}

	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

func (s *Speaker) SetMuted(muted bool) {
	s.mu.Lock()
	s.muted = muted
	s.mu.Unlock()
}

func (s *Speaker) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// Cleanup drops queued sounds and closes the device.
func (s *Speaker) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}

	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	s.initialized = false
}
