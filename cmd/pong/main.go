package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"termpong/internal/ansii"
	"termpong/internal/audio"
	"termpong/internal/config"
	"termpong/internal/input"
	"termpong/internal/loop"
	"termpong/internal/pong"
	"termpong/internal/renderer"
	"termpong/internal/replay"
	"termpong/internal/rng"
)

func main() {
	os.Exit(run())
}

func run() int {
	path := ""
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg := config.LoadConfig(path)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		return 2
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintln(os.Stderr, "opening log file:", err)
		return 1
	}
	defer logFile.Close()
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.Level(cfg.LogLevel)})))

	w, h, err := ansii.Probe(os.Stdout)
	if err != nil {
		slog.Error("terminal probe failed", slog.Any("error", err))
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	slog.Debug("terminal", slog.Int("width", w), slog.Int("height", h))

	seed := cfg.SessionSeed(time.Now())

	var sink pong.AudioSink
	if !cfg.Mute {
		if spk := startAudio(cfg.SoundDir, seed); spk != nil {
			defer spk.Cleanup()
			sink = spk
		}
	}

	session, err := pong.NewSession(cfg.Params(), rng.New(seed), sink)
	if err != nil {
		slog.Error("creating session", slog.Any("error", err))
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	slog.Info("seeded", slog.String("session", session.ID), slog.Uint64("seed", seed))

	var rec *replay.Recorder
	if cfg.Trace {
		rec = replay.NewRecorder(replay.Header{SessionID: session.ID, Seed: seed, TickRate: cfg.TickRate})
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		slog.Error("creating screen", slog.Any("error", err))
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := screen.Init(); err != nil {
		slog.Error("initializing screen", slog.Any("error", err))
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	play(screen, session, rec, cfg)
	screen.Fini()

	if rec != nil {
		slog.Info("trace recorded", slog.Int("steps", rec.Steps()), slog.String("digest", rec.Digest()))
		if err := replay.Verify(rec.Bytes(), cfg.Params()); err != nil {
			slog.Error("trace does not replay", slog.Any("error", err))
		}
	}

	scores := session.Scores()
	rightName := "computer"
	if cfg.TwoPlayer {
		rightName = "player 2"
	}
	fmt.Print(ansii.Scoreboard(scores[pong.LeftSide], scores[pong.RightSide], "player", rightName))
	return 0
}

// startAudio returns nil when no device can be opened; the game then runs
// silent.
func startAudio(dir string, seed uint64) *audio.Speaker {
	bank, err := audio.LoadBank(dir, seed)
	if err != nil {
		slog.Info("some sounds failed to load, using synthesized cues", slog.Any("error", err))
	}
	if bank == nil {
		return nil
	}

	spk := audio.NewSpeaker(bank)
	if err := spk.Initialize(); err != nil {
		slog.Info("audio initialization failed, continuing without sound", slog.Any("error", err))
		return nil
	}
	return spk
}

// play runs the session until a quit key or signal.
func play(screen tcell.Screen, session *pong.Session, rec *replay.Recorder, cfg config.Configuration) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	clock := loop.SystemClock{}
	tracker := input.NewTracker(cfg.Hold())
	view := renderer.NewScreen(screen)

	handle := func(ev tcell.Event) {
		switch ev := ev.(type) {
		case *tcell.EventKey:
			action := input.ProcessKey(ev)
			if action == input.Quit {
				slog.Debug("quit requested")
				cancel()
				return
			}
			tracker.Press(action, clock.Now())
		case *tcell.EventResize:
			screen.Sync()
		}
	}

	l := loop.New(clock, cfg.TickRate, cfg.FrameRate)
	l.Run(ctx, loop.Hooks{
		Poll: func() {
			for {
				select {
				case ev := <-events:
					handle(ev)
				default:
					return
				}
			}
		},
		Step: func() {
			ks := tracker.Snapshot(clock.Now())
			session.Step(ks)
			if rec != nil {
				rec.Record(ks, session)
			}
		},
		Render: func(fps int) {
			renderer.Render(view, session, fps)
		},
	})

	slog.Info("session ended",
		slog.String("session", session.ID),
		slog.Uint64("steps", session.Steps()),
		slog.Any("scores", session.Scores()))
}
