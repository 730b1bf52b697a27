package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"

	"termpong/internal/pong"
	"termpong/internal/rng"
)

const sampleRate = beep.SampleRate(44100)

// Quality passed to beep.Resample for files recorded at another rate.
const resampleQuality = 4

var cues = [...]pong.Cue{pong.CueStart, pong.CueBounce, pong.CueLose}

// SourceSynth marks a cue whose samples were generated rather than loaded.
const SourceSynth = "synth"

// Bank holds every cue fully decoded in memory, so playing one never touches
// the disk or a decoder.
type Bank struct {
	format  beep.Format
	buffers [len(cues)]*beep.Buffer
	sources [len(cues)]string
}

func newBank() *Bank {
	return &Bank{format: beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2}}
}

// NewBank synthesizes every cue.
func NewBank(seed uint64) (*Bank, error) {
	b := newBank()
	src := rng.New(seed)
	for _, cue := range cues {
		if err := b.synth(cue, src); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// LoadBank decodes <cue>.ogg or <cue>.wav from dir for every cue. Cues with
// no file, or whose file fails to decode, are synthesized instead; decode
// failures are still reported in the returned error. The bank is usable
// whenever it is non-nil.
func LoadBank(dir string, seed uint64) (*Bank, error) {
	b := newBank()
	src := rng.New(seed)

	var errs []error
	for _, cue := range cues {
		path, ok := findCueFile(dir, cue)
		if ok {
			err := b.load(cue, path)
			if err == nil {
				continue
			}
			errs = append(errs, err)
		}
		if err := b.synth(cue, src); err != nil {
			return nil, err
		}
	}
	return b, errors.Join(errs...)
}

func findCueFile(dir string, cue pong.Cue) (string, bool) {
	if dir == "" {
		return "", false
	}
	for _, ext := range []string{".ogg", ".wav"} {
		path := filepath.Join(dir, cue.String()+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

func (b *Bank) synth(cue pong.Cue, src *rng.Rand) error {
	s, err := synthesize(cue, b.format.SampleRate, src)
	if err != nil {
		return err
	}
	buf := beep.NewBuffer(b.format)
	buf.Append(s)
	b.buffers[cue] = buf
	b.sources[cue] = SourceSynth
	return nil
}

func (b *Bank) load(cue pong.Cue, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch filepath.Ext(path) {
	case ".ogg":
		stream, format, err = vorbis.Decode(f)
	default:
		stream, format, err = wav.Decode(f)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("decode %s: %w", path, err)
	}
	defer stream.Close()

	var s beep.Streamer = stream
	if format.SampleRate != b.format.SampleRate {
		s = beep.Resample(resampleQuality, format.SampleRate, b.format.SampleRate, stream)
	}

	buf := beep.NewBuffer(b.format)
	buf.Append(s)
	if err := stream.Err(); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	b.buffers[cue] = buf
	b.sources[cue] = path
	return nil
}

func (b *Bank) Format() beep.Format {
	return b.format
}

// Streamer returns a fresh reader over the cue's samples, or nil for an
// unknown cue.
func (b *Bank) Streamer(cue pong.Cue) beep.StreamSeeker {
	if !valid(cue) {
		return nil
	}
	buf := b.buffers[cue]
	return buf.Streamer(0, buf.Len())
}

// Len is the cue's length in samples.
func (b *Bank) Len(cue pong.Cue) int {
	if !valid(cue) {
		return 0
	}
	return b.buffers[cue].Len()
}

// Source is the file a cue was loaded from, or SourceSynth.
func (b *Bank) Source(cue pong.Cue) string {
	if !valid(cue) {
		return ""
	}
	return b.sources[cue]
}

func valid(cue pong.Cue) bool {
	return cue >= 0 && int(cue) < len(cues)
}
