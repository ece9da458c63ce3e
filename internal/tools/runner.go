package tools

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// CommandRunner abstracts external command execution.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, []byte, int32, error)
}

const (
	// MaxOutputBytes caps what is kept of each output stream.
	MaxOutputBytes = 64 * 1024
	// WaitDelay bounds how long Run waits for output pipes after ctx is done,
	// for players that leave children holding them.
	WaitDelay = 2 * time.Second
)

// ExecRunner executes commands on the local host.
type ExecRunner struct{}

// cappedBuffer keeps the first limit bytes and discards the rest.
type cappedBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	if room := c.limit - c.buf.Len(); room > 0 {
		if len(p) > room {
			c.buf.Write(p[:room])
		} else {
			c.buf.Write(p)
		}
	}
	return len(p), nil
}

// Run executes name with args and returns stdout, stderr and the exit code.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, int32, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = WaitDelay
	stdout := &cappedBuffer{limit: MaxOutputBytes}
	stderr := &cappedBuffer{limit: MaxOutputBytes}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err == nil {
		return stdout.buf.Bytes(), stderr.buf.Bytes(), 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.buf.Bytes(), stderr.buf.Bytes(), int32(exitErr.ExitCode()), err
	}

	exitCode := int32(1)
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		exitCode = 127
	}
	return stdout.buf.Bytes(), stderr.buf.Bytes(), exitCode, err
}
