package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/danmuck/cpmdl/internal/tools"
	"github.com/rs/zerolog"
)

// Notifier announces the outcome of a session.
type Notifier interface {
	Notify(ctx context.Context, success bool) error
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, success bool) error

func (f Func) Notify(ctx context.Context, success bool) error {
	return f(ctx, success)
}

// Nop ignores every notification.
type Nop struct{}

func (Nop) Notify(context.Context, bool) error { return nil }

// SoundConfig selects the player command and the sound files per outcome.
type SoundConfig struct {
	Player  string
	Args    []string
	Success string
	Failure string
}

func DefaultSoundConfig() SoundConfig {
	return SoundConfig{Player: "aplay", Args: []string{"-q"}}
}

// Sound plays a sound file through an external player.
type Sound struct {
	cfg    SoundConfig
	runner tools.CommandRunner
	logger zerolog.Logger
}

func NewSound(cfg SoundConfig, runner tools.CommandRunner, logger zerolog.Logger) *Sound {
	if runner == nil {
		runner = tools.ExecRunner{}
	}
	return &Sound{cfg: cfg, runner: runner, logger: logger.With().Str("component", "notify").Logger()}
}

// Notify plays the success or failure sound. A missing sound file for the
// outcome is not an error.
func (s *Sound) Notify(ctx context.Context, success bool) error {
	file := s.cfg.Failure
	if success {
		file = s.cfg.Success
	}
	file = strings.TrimSpace(file)
	if file == "" {
		s.logger.Debug().Bool("success", success).Msg("no sound configured")
		return nil
	}
	player := strings.TrimSpace(s.cfg.Player)
	if player == "" {
		return fmt.Errorf("notify: no player configured for %s", file)
	}

	args := append(append([]string{}, s.cfg.Args...), file)
	_, stderr, code, err := s.runner.Run(ctx, player, args...)
	if err != nil {
		return fmt.Errorf("notify: %s %s exited %d: %w (%s)", player, file, code, err, strings.TrimSpace(string(stderr)))
	}
	s.logger.Debug().Bool("success", success).Str("sound", file).Msg("sound played")
	return nil
}
