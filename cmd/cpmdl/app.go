package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/cpmdl/internal/tools"
	"github.com/danmuck/cpmdl/internal/transport"
	"github.com/spf13/afero"
)

// errSessionFailed marks a session that ran but did not end with quit. The
// session already logged why.
var errSessionFailed = errors.New("session failed")

// app carries the process collaborators so tests can replace the serial port,
// the filesystem and external commands.
type app struct {
	open   transport.Opener
	fs     afero.Fs
	runner tools.CommandRunner
	stdout io.Writer
	stderr io.Writer
}

func newApp() *app {
	return &app{
		open:   transport.OpenSerial,
		fs:     afero.NewOsFs(),
		runner: tools.ExecRunner{},
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// execute runs the command line and maps the result to a process exit code.
func execute(ctx context.Context, a *app, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errSessionFailed) {
			fmt.Fprintf(a.stderr, "cpmdl: %v\n", err)
		}
		return 1
	}
	return 0
}
