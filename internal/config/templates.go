package config

import (
	"fmt"
	"os"
)

func Template() string {
	return downloaderTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(downloaderTemplate), 0o600)
}

const downloaderTemplate = `device = "/dev/ttyUSB0"
baud = 9600
output = "download"
loglevel = 20
use_logfile = false
logfile = "cpmdl.log"
metrics_file = ""

[sound]
player = "aplay"
args = ["-q"]
success = ""
failure = ""

[limits]
max_content_bytes = 8388608
max_name_bytes = 1024
`
