package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cpmdl.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadFileOverlaysDefinedKeys(t *testing.T) {
	path := writeConfig(t, `
device = "/dev/ttyS1"
baud = 19200
use_logfile = true

[sound]
success = "/usr/share/sounds/ok.wav"

[limits]
max_name_bytes = 64
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Device != "/dev/ttyS1" {
		t.Fatalf("unexpected device: %q", cfg.Device)
	}
	if cfg.BaudRate != 19200 {
		t.Fatalf("unexpected baud: %d", cfg.BaudRate)
	}
	if cfg.OutputPath != "download" {
		t.Fatalf("unexpected output default: %q", cfg.OutputPath)
	}
	if cfg.LogLevel != 20 {
		t.Fatalf("unexpected loglevel default: %d", cfg.LogLevel)
	}
	if !cfg.UseLogfile || cfg.LogfilePath != "cpmdl.log" {
		t.Fatalf("unexpected logfile settings: %v %q", cfg.UseLogfile, cfg.LogfilePath)
	}
	if cfg.Sound.Player != "aplay" || cfg.Sound.Success != "/usr/share/sounds/ok.wav" || cfg.Sound.Failure != "" {
		t.Fatalf("unexpected sound config: %+v", cfg.Sound)
	}
	if cfg.Limits.MaxNameBytes != 64 || cfg.Limits.MaxContentBytes != Default().Limits.MaxContentBytes {
		t.Fatalf("unexpected limits: %+v", cfg.Limits)
	}
}

func TestLoadFileRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		body string
		want error
	}{
		{`baud = 115200`, ErrInvalidBaud},
		{`loglevel = 25`, ErrInvalidLogLevel},
		{`device = "  "`, ErrMissingDevice},
		{`output = ""`, ErrMissingOutput},
		{"use_logfile = true\nlogfile = \"\"", ErrMissingLogfile},
		{"[sound]\nplayer = \"\"\nfailure = \"x.wav\"", ErrMissingPlayer},
	}
	for _, test := range tests {
		_, err := LoadFile(writeConfig(t, test.body))
		if !errors.Is(err, test.want) {
			t.Errorf("body %q: expected %v, got %v", test.body, test.want, err)
		}
	}
}

func TestLoadFileRejectsUnknownKeys(t *testing.T) {
	_, err := LoadFile(writeConfig(t, `serial_port = "/dev/ttyS0"`))
	if err == nil || !strings.Contains(err.Error(), "serial_port") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestTemplateLoadsAsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpmdl.toml")
	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	def := Default()
	if cfg.Device != def.Device || cfg.BaudRate != def.BaudRate || cfg.OutputPath != def.OutputPath {
		t.Fatalf("template differs from defaults: %+v", cfg)
	}
	if cfg.Limits != def.Limits {
		t.Fatalf("template limits differ: %+v", cfg.Limits)
	}
	if err := WriteTemplate(path, false); err == nil {
		t.Fatalf("expected error when template exists")
	}
	if err := WriteTemplate(path, true); err != nil {
		t.Fatalf("overwrite template: %v", err)
	}
}
