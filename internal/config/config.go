package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"termpong/internal/pong"
)

type Configuration struct {
	LogLevel        int     `json:"logLevel"`
	LogFile         string  `json:"logFile"`
	Seed            uint64  `json:"seed"`
	TickRate        int     `json:"tickRate"`
	FrameRate       int     `json:"frameRate"`
	BallSpeed       float32 `json:"ballSpeed"`
	PaddleSpeed     float32 `json:"paddleSpeed"`
	AISpeed         float32 `json:"aiSpeed"`
	LaunchThreshold float32 `json:"launchThreshold"`
	SoundDir        string  `json:"soundDir"`
	Mute            bool    `json:"mute"`
	Trace           bool    `json:"trace"`
	HoldMillis      int     `json:"holdMillis"`
	TwoPlayer       bool    `json:"twoPlayer"`
}

const defaultPath = "config.json"

func Default() Configuration {
	p := pong.DefaultParams()
	return Configuration{
		LogLevel:        int(slog.LevelInfo),
		LogFile:         "pong.log",
		TickRate:        p.TickRate,
		FrameRate:       60,
		BallSpeed:       p.BallSpeed,
		PaddleSpeed:     p.PaddleSpeed,
		AISpeed:         p.AISpeed,
		LaunchThreshold: p.LaunchThreshold,
		HoldMillis:      120,
	}
}

// LoadConfig reads the JSON file at path, or config.json when path is empty.
// Fields missing from the file keep their defaults; a missing or unreadable
// file gives the default configuration.
func LoadConfig(path string) Configuration {
	c := Default()

	if path == "" {
		path = defaultPath
	}
	cf, err := os.ReadFile(path)
	if err != nil {
		slog.Info("failed to open config at path provided, using default config instead", slog.String("path", path))
		return c
	}

	if err := json.Unmarshal(cf, &c); err != nil {
		slog.Info("failed to read configuration, using default config instead", slog.String("path", path), slog.Any("error", err))
		return Default()
	}
	return c
}

// Validate reports every invalid field at once.
func (c Configuration) Validate() error {
	var errs []error
	if c.FrameRate < 0 {
		errs = append(errs, fmt.Errorf("frameRate must not be negative, got %d", c.FrameRate))
	}
	if c.HoldMillis <= 0 {
		errs = append(errs, fmt.Errorf("holdMillis must be positive, got %d", c.HoldMillis))
	}
	if c.LogFile == "" {
		errs = append(errs, errors.New("logFile must be set"))
	}
	if err := c.Params().Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c Configuration) Params() pong.Params {
	return pong.Params{
		TickRate:        c.TickRate,
		BallSpeed:       c.BallSpeed,
		PaddleSpeed:     c.PaddleSpeed,
		AISpeed:         c.AISpeed,
		LaunchThreshold: c.LaunchThreshold,
		TwoPlayer:       c.TwoPlayer,
	}
}

func (c Configuration) Hold() time.Duration {
	return time.Duration(c.HoldMillis) * time.Millisecond
}

// SessionSeed is the configured seed, or one taken from now when the
// configuration leaves it at zero.
func (c Configuration) SessionSeed(now time.Time) uint64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return uint64(now.UnixNano())
}
