package downloader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danmuck/cpmdl/internal/metrics"
	"github.com/danmuck/cpmdl/internal/notify"
	"github.com/danmuck/cpmdl/internal/protocol"
	"github.com/danmuck/cpmdl/internal/protocol/frame"
	"github.com/danmuck/cpmdl/internal/storage"
	"github.com/danmuck/cpmdl/internal/transport"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config selects the device and the output tree of a session.
type Config struct {
	Device     string
	BaudRate   int
	OutputPath string
	Limits     frame.Limits
}

// Deps are the collaborators a session drives. Nil members fall back to the
// serial transport, the host filesystem and no notification.
type Deps struct {
	Open     transport.Opener
	Store    *storage.Store
	Notifier notify.Notifier
	Metrics  *metrics.Recorder
	Logger   zerolog.Logger
}

// Session is the state of one receive session. It is not safe for
// concurrent use and runs at most once.
type Session struct {
	cfg    Config
	deps   Deps
	logger zerolog.Logger

	workingDir string
	outcome    Outcome
}

func New(cfg Config, deps Deps) *Session {
	if deps.Open == nil {
		deps.Open = transport.OpenSerial
	}
	if deps.Store == nil {
		deps.Store = storage.NewOS(deps.Logger)
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Nop{}
	}
	id := uuid.NewString()
	return &Session{
		cfg:  cfg,
		deps: deps,
		logger: deps.Logger.With().
			Str("session", id).
			Str("device", cfg.Device).
			Logger(),
		workingDir: cfg.OutputPath,
		outcome:    Outcome{SessionID: id, WorkingDir: cfg.OutputPath},
	}
}

// ID returns the session identifier used in log entries.
func (s *Session) ID() string {
	return s.outcome.SessionID
}

// Run executes the session until the quit command or the first fatal error.
// The transport is closed on every return path, and when ctx is cancelled
// while a read is blocked.
func (s *Session) Run(ctx context.Context) Outcome {
	started := time.Now()
	s.logger.Info().
		Int("baud", s.cfg.BaudRate).
		Str("output", s.cfg.OutputPath).
		Msg("session starting")

	if err := s.deps.Store.EnsureDirectory(s.cfg.OutputPath); err != nil {
		s.logger.Error().Err(err).Str("path", s.cfg.OutputPath).Msg("output path cannot be created")
		return s.finish(ctx, started, ResultSetupFailed, err, false)
	}

	t, err := s.open()
	if err != nil {
		s.logger.Error().Err(err).Int("baud", s.cfg.BaudRate).Msg("transport not available")
		return s.finish(ctx, started, ResultOpenFailed, err, true)
	}
	defer t.Close()
	stop := context.AfterFunc(ctx, func() {
		_ = t.Close()
	})
	defer stop()

	s.logger.Info().Msg("waiting for frames")
	result, err := s.loop(ctx, t)
	return s.finish(ctx, started, result, err, true)
}

func (s *Session) open() (transport.Transport, error) {
	t, err := s.deps.Open(s.cfg.Device, s.cfg.BaudRate)
	if err != nil {
		return nil, err
	}
	if t == nil || !t.IsOpen() {
		if t != nil {
			_ = t.Close()
		}
		return nil, &transport.OpenError{Device: s.cfg.Device, Baud: s.cfg.BaudRate, Err: transport.ErrNotOpen}
	}
	return t, nil
}

func (s *Session) loop(ctx context.Context, t transport.Transport) (Result, error) {
	for {
		f, err := frame.ReadFrame(t, s.cfg.Limits)
		if err != nil {
			if ctx.Err() != nil {
				return ResultInterrupted, fmt.Errorf("session interrupted: %w", ctx.Err())
			}
			return ResultTransportError, &transport.ReadError{Device: s.cfg.Device, Err: err}
		}

		cmd, err := protocol.Parse(f)
		if err != nil {
			return ResultDecodeError, err
		}
		s.deps.Metrics.RecordFrame(string(cmd.Kind()))

		switch c := cmd.(type) {
		case protocol.Quit:
			s.logger.Info().Msg("quit received")
			return ResultQuit, nil
		case protocol.ChangeSubfolder:
			if err := s.changeSubfolder(c); err != nil {
				return ResultDirectoryFailed, err
			}
		case protocol.StoreFile:
			if err := s.storeFile(c); err != nil {
				return ResultWriteFailed, err
			}
		default:
			return ResultDecodeError, fmt.Errorf("%w: %T", protocol.ErrUnknownCommand, cmd)
		}
	}
}

func (s *Session) changeSubfolder(c protocol.ChangeSubfolder) error {
	dir, err := storage.Subdirectory(s.cfg.OutputPath, c.Name)
	if err != nil {
		s.logger.Error().Err(err).Str("folder", c.Name).Msg("subfolder outside output root")
		return err
	}
	if err := s.deps.Store.EnsureDirectory(dir); err != nil {
		s.logger.Error().Err(err).Str("folder", c.Name).Str("path", dir).Msg("subfolder cannot be created")
		return err
	}
	s.workingDir = dir
	s.outcome.WorkingDir = dir
	s.outcome.Subfolders++
	s.logger.Info().Str("folder", c.Name).Str("path", dir).Msg("subfolder changed")
	return nil
}

func (s *Session) storeFile(c protocol.StoreFile) error {
	n, err := s.deps.Store.WriteFile(s.workingDir, c.Filename, c.Content)
	if err != nil {
		s.deps.Metrics.RecordWriteFailure()
		s.logger.Error().
			Err(err).
			Str("file", c.Filename).
			Str("dir", s.workingDir).
			Int("bytes", len(c.Content)).
			Msg("file cannot be stored")
		return err
	}
	s.deps.Metrics.RecordFileWritten(n)
	s.outcome.FilesWritten++
	s.outcome.BytesWritten += int64(n)
	s.logger.Info().
		Str("file", c.Filename).
		Str("dir", s.workingDir).
		Int("bytes", n).
		Msg("file stored")
	return nil
}

func (s *Session) finish(ctx context.Context, started time.Time, result Result, err error, announce bool) Outcome {
	s.outcome.Result = result
	s.outcome.Err = err
	s.outcome.Duration = time.Since(started)
	s.deps.Metrics.RecordSession(string(result), time.Now())

	ev := s.logger.Info()
	if result != ResultQuit {
		ev = s.logger.Error().Err(err)
	}
	ev.Str("result", string(result)).
		Int("files", s.outcome.FilesWritten).
		Int64("bytes", s.outcome.BytesWritten).
		Int("subfolders", s.outcome.Subfolders).
		Dur("elapsed", s.outcome.Duration).
		Msg("session ended")

	if announce {
		// The player must still run when ctx was cancelled by an interrupt.
		if nerr := s.deps.Notifier.Notify(context.WithoutCancel(ctx), s.outcome.OK()); nerr != nil {
			s.logger.Warn().Err(nerr).Msg("notification failed")
		}
		s.outcome.Notified = true
	}
	return s.outcome
}

// Describe renders an outcome as a single line for the command line.
func Describe(o Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "session %s: %s, %d file(s), %d byte(s)", o.SessionID, o.Result, o.FilesWritten, o.BytesWritten)
	if o.Err != nil {
		fmt.Fprintf(&b, ": %v", o.Err)
	}
	return b.String()
}

// IsInterrupted reports whether err ended a session because of cancellation.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
