package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel     = "CPMDL_LOG_LEVEL"
	EnvLogTimestamp = "CPMDL_LOG_TIMESTAMP"
	EnvLogNoColor   = "CPMDL_LOG_NOCOLOR"
)

var ErrInvalidLevel = errors.New("logging: invalid level")

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Options controls where and how much the process logs.
type Options struct {
	Level       zerolog.Level
	Timestamp   bool
	NoColor     bool
	UseLogfile  bool
	LogfilePath string
	Console     io.Writer
}

var configureTestsOnce sync.Once

// ConfigureTests switches the global logger to the test profile once per process.
func ConfigureTests() {
	configureTestsOnce.Do(func() {
		opts := DefaultOptions(ProfileTest)
		zerolog.SetGlobalLevel(opts.Level)
	})
}

// ConfigureRuntime applies env overrides to opts, builds the logger and
// installs it as the zerolog global logger. The returned closer releases the
// logfile, if one was opened.
func ConfigureRuntime(opts Options) (zerolog.Logger, io.Closer, error) {
	applyEnvOverrides(&opts)
	logger, closer, err := New(opts)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}
	log.Logger = logger
	return logger, closer, nil
}

func DefaultOptions(profile Profile) Options {
	switch profile {
	case ProfileTest:
		return Options{Level: zerolog.DebugLevel, Timestamp: false, NoColor: true}
	default:
		return Options{Level: zerolog.InfoLevel, Timestamp: true}
	}
}

// New builds a logger writing to the console and, when enabled, to a logfile.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	var out io.Writer = zerolog.ConsoleWriter{
		Out:        console,
		NoColor:    opts.NoColor,
		TimeFormat: time.RFC3339,
	}

	var closer io.Closer = nopCloser{}
	if opts.UseLogfile {
		path := strings.TrimSpace(opts.LogfilePath)
		if path == "" {
			return zerolog.Nop(), closer, fmt.Errorf("logging: logfile enabled without a path")
		}
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("logging: open logfile %s: %w", path, err)
		}
		out = zerolog.MultiLevelWriter(out, f)
		closer = f
	}

	ctx := zerolog.New(out).Level(opts.Level).With()
	if opts.Timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger(), closer, nil
}

// LevelFromNumeric maps the numeric levels accepted on the command line.
func LevelFromNumeric(n int) (zerolog.Level, error) {
	switch n {
	case 0:
		return zerolog.TraceLevel, nil
	case 10:
		return zerolog.DebugLevel, nil
	case 20:
		return zerolog.InfoLevel, nil
	case 30:
		return zerolog.WarnLevel, nil
	case 40:
		return zerolog.ErrorLevel, nil
	case 50:
		return zerolog.FatalLevel, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("%w: %d (want one of 0,10,20,30,40,50)", ErrInvalidLevel, n)
	}
}

// ParseLevel accepts a level name or one of the numeric levels.
func ParseLevel(raw string) (zerolog.Level, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if n, err := strconv.Atoi(v); err == nil {
		lvl, err := LevelFromNumeric(n)
		return lvl, err == nil
	}
	switch v {
	case "":
		return zerolog.InfoLevel, false
	case "trace", "diagnostics":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "fatal", "critical":
		return zerolog.FatalLevel, true
	case "disabled", "disable", "off", "none", "inactive":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func applyEnvOverrides(opts *Options) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		opts.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		opts.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		opts.NoColor = v
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
