package version

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/danmuck/cpmdl/internal/tools"
)

// Build-time variables (override via -ldflags -X ...).
//
//	go build -ldflags "-X github.com/danmuck/cpmdl/internal/version.Version=0.3.0 -X github.com/danmuck/cpmdl/internal/version.Commit=abcd123"
var (
	Version = ""
	Commit  = ""
)

// Get resolves the version: ldflags first, then git describe, then module
// build info.
func Get(ctx context.Context, runner tools.CommandRunner) string {
	if Version != "" {
		if Commit != "" {
			return fmt.Sprintf("%s (%s)", Version, Commit)
		}
		return Version
	}
	if v := GitDescribe(ctx, runner); v != "" {
		return v
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		v := info.Main.Version
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				rev := setting.Value
				if len(rev) > 8 {
					rev = rev[:8]
				}
				return fmt.Sprintf("%s (%s)", v, rev)
			}
		}
		if v != "" {
			return v
		}
	}
	return "dev"
}

// GitDescribe returns the tag-based git version of the working directory, or
// "" when git is unavailable or fails.
func GitDescribe(ctx context.Context, runner tools.CommandRunner) string {
	if runner == nil {
		runner = tools.ExecRunner{}
	}
	stdout, _, code, err := runner.Run(ctx, "git", "--no-pager", "describe", "--tags", "--always")
	if err != nil || code != 0 {
		return ""
	}
	return strings.TrimSpace(string(stdout))
}
