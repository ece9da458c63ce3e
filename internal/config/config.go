package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/cpmdl/internal/logging"
	"github.com/danmuck/cpmdl/internal/notify"
	"github.com/danmuck/cpmdl/internal/protocol/frame"
)

var (
	ErrMissingDevice   = errors.New("config: missing device")
	ErrMissingOutput   = errors.New("config: missing output path")
	ErrInvalidBaud     = errors.New("config: invalid baud rate")
	ErrInvalidLogLevel = errors.New("config: invalid log level")
	ErrMissingLogfile  = errors.New("config: logfile enabled without a path")
	ErrMissingPlayer   = errors.New("config: sound configured without a player")
)

// BaudRates are the rates a CP/M host can be driven at.
var BaudRates = []int{300, 600, 1200, 2400, 4800, 9600, 19200}

// Config is the runtime configuration of the downloader.
type Config struct {
	Device      string
	BaudRate    int
	OutputPath  string
	LogLevel    int
	UseLogfile  bool
	LogfilePath string
	MetricsFile string
	Sound       notify.SoundConfig
	Limits      frame.Limits
}

type fileConfig struct {
	Device      string    `toml:"device"`
	Baud        int       `toml:"baud"`
	Output      string    `toml:"output"`
	LogLevel    int       `toml:"loglevel"`
	UseLogfile  bool      `toml:"use_logfile"`
	Logfile     string    `toml:"logfile"`
	MetricsFile string    `toml:"metrics_file"`
	Sound       fileSound `toml:"sound"`
	Limits      fileLimit `toml:"limits"`
}

type fileSound struct {
	Player  string   `toml:"player"`
	Args    []string `toml:"args"`
	Success string   `toml:"success"`
	Failure string   `toml:"failure"`
}

type fileLimit struct {
	MaxContentBytes uint64 `toml:"max_content_bytes"`
	MaxNameBytes    uint64 `toml:"max_name_bytes"`
}

func Default() Config {
	return Config{
		Device:      "/dev/ttyUSB0",
		BaudRate:    9600,
		OutputPath:  "download",
		LogLevel:    20,
		UseLogfile:  false,
		LogfilePath: "cpmdl.log",
		Sound:       notify.DefaultSoundConfig(),
		Limits:      frame.DefaultLimits(),
	}
}

// LoadFile overlays the keys present in a TOML file onto Default().
func LoadFile(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("device") {
		cfg.Device = strings.TrimSpace(raw.Device)
	}
	if meta.IsDefined("baud") {
		cfg.BaudRate = raw.Baud
	}
	if meta.IsDefined("output") {
		cfg.OutputPath = strings.TrimSpace(raw.Output)
	}
	if meta.IsDefined("loglevel") {
		cfg.LogLevel = raw.LogLevel
	}
	if meta.IsDefined("use_logfile") {
		cfg.UseLogfile = raw.UseLogfile
	}
	if meta.IsDefined("logfile") {
		cfg.LogfilePath = strings.TrimSpace(raw.Logfile)
	}
	if meta.IsDefined("metrics_file") {
		cfg.MetricsFile = strings.TrimSpace(raw.MetricsFile)
	}
	if meta.IsDefined("sound", "player") {
		cfg.Sound.Player = strings.TrimSpace(raw.Sound.Player)
	}
	if meta.IsDefined("sound", "args") {
		cfg.Sound.Args = raw.Sound.Args
	}
	if meta.IsDefined("sound", "success") {
		cfg.Sound.Success = strings.TrimSpace(raw.Sound.Success)
	}
	if meta.IsDefined("sound", "failure") {
		cfg.Sound.Failure = strings.TrimSpace(raw.Sound.Failure)
	}
	if meta.IsDefined("limits", "max_content_bytes") {
		cfg.Limits.MaxContentBytes = raw.Limits.MaxContentBytes
	}
	if meta.IsDefined("limits", "max_name_bytes") {
		cfg.Limits.MaxNameBytes = raw.Limits.MaxNameBytes
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Device) == "" {
		return ErrMissingDevice
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return ErrMissingOutput
	}
	if !slices.Contains(BaudRates, c.BaudRate) {
		return fmt.Errorf("%w: %d (want one of %v)", ErrInvalidBaud, c.BaudRate, BaudRates)
	}
	if _, err := logging.LevelFromNumeric(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %d", ErrInvalidLogLevel, c.LogLevel)
	}
	if c.UseLogfile && strings.TrimSpace(c.LogfilePath) == "" {
		return ErrMissingLogfile
	}
	if (c.Sound.Success != "" || c.Sound.Failure != "") && strings.TrimSpace(c.Sound.Player) == "" {
		return ErrMissingPlayer
	}
	return nil
}
