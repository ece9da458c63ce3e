package main

import (
	"github.com/danmuck/cpmdl/internal/config"
	"github.com/danmuck/cpmdl/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

// flagValues holds the raw command line values. They override the config file
// only when set explicitly.
type flagValues struct {
	configPath   string
	device       string
	baud         int
	output       string
	loglevel     int
	useLogfile   bool
	logfile      string
	metricsFile  string
	successSound string
	failureSound string
	player       string
	showVersion  bool
}

// bindShared registers the flags every subcommand inherits.
func (f *flagValues) bindShared(fs *pflag.FlagSet) {
	d := config.Default()
	fs.StringVar(&f.configPath, "config", "", "TOML config file")
	fs.StringVar(&f.device, "device", d.Device, "serial device")
	fs.IntVar(&f.baud, "baud", d.BaudRate, "baud rate (300, 600, 1200, 2400, 4800, 9600, 19200)")
	fs.IntVar(&f.loglevel, "loglevel", d.LogLevel, "log level (0, 10, 20, 30, 40, 50)")
	fs.BoolVar(&f.useLogfile, "use_logfile", d.UseLogfile, "also write log entries to the logfile")
	fs.StringVar(&f.logfile, "logfile", d.LogfilePath, "logfile path")
}

// bindReceive registers the flags of the receiving root command.
func (f *flagValues) bindReceive(fs *pflag.FlagSet) {
	d := config.Default()
	fs.StringVar(&f.output, "output", d.OutputPath, "output directory")
	fs.StringVar(&f.metricsFile, "metrics-file", d.MetricsFile, "write session metrics to this file")
	fs.StringVar(&f.successSound, "success-sound", d.Sound.Success, "sound played after quit")
	fs.StringVar(&f.failureSound, "failure-sound", d.Sound.Failure, "sound played after a failed session")
	fs.StringVar(&f.player, "player", d.Sound.Player, "sound player command")
	fs.BoolVar(&f.showVersion, "version", false, "print the version and exit")
}

// resolve loads the config file, if any, and applies the flags that were set.
func (f *flagValues) resolve(fs *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.LoadFile(f.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if fs.Changed("device") {
		cfg.Device = f.device
	}
	if fs.Changed("baud") {
		cfg.BaudRate = f.baud
	}
	if fs.Changed("output") {
		cfg.OutputPath = f.output
	}
	if fs.Changed("loglevel") {
		cfg.LogLevel = f.loglevel
	}
	if fs.Changed("use_logfile") {
		cfg.UseLogfile = f.useLogfile
	}
	if fs.Changed("logfile") {
		cfg.LogfilePath = f.logfile
	}
	if fs.Changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}
	if fs.Changed("success-sound") {
		cfg.Sound.Success = f.successSound
	}
	if fs.Changed("failure-sound") {
		cfg.Sound.Failure = f.failureSound
	}
	if fs.Changed("player") {
		cfg.Sound.Player = f.player
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func (a *app) logger(cfg config.Config) (zerolog.Logger, func(), error) {
	level, err := logging.LevelFromNumeric(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), func() {}, err
	}
	opts := logging.DefaultOptions(logging.ProfileRuntime)
	opts.Level = level
	opts.UseLogfile = cfg.UseLogfile
	opts.LogfilePath = cfg.LogfilePath
	opts.Console = a.stderr
	logger, closer, err := logging.ConfigureRuntime(opts)
	if err != nil {
		return zerolog.Nop(), func() {}, err
	}
	return logger, func() { _ = closer.Close() }, nil
}
