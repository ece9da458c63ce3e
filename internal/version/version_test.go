package version

import (
	"context"
	"errors"
	"testing"
)

type fakeRunner struct {
	out  string
	code int32
	err  error
	args []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, int32, error) {
	f.args = append([]string{name}, args...)
	return []byte(f.out), nil, f.code, f.err
}

func TestGitDescribe(t *testing.T) {
	r := &fakeRunner{out: "0.1.0-97-g1d18af9\n"}
	if got := GitDescribe(context.Background(), r); got != "0.1.0-97-g1d18af9" {
		t.Fatalf("unexpected describe: %q", got)
	}
	want := []string{"git", "--no-pager", "describe", "--tags", "--always"}
	if len(r.args) != len(want) {
		t.Fatalf("unexpected args: %v", r.args)
	}
	for i := range want {
		if r.args[i] != want[i] {
			t.Fatalf("unexpected args: %v", r.args)
		}
	}
}

func TestGitDescribeFailureIsEmpty(t *testing.T) {
	r := &fakeRunner{code: 128, err: errors.New("exit status 128")}
	if got := GitDescribe(context.Background(), r); got != "" {
		t.Fatalf("expected empty describe, got %q", got)
	}
}

func TestGetPrefersLdflags(t *testing.T) {
	oldV, oldC := Version, Commit
	t.Cleanup(func() { Version, Commit = oldV, oldC })
	Version, Commit = "1.2.3", "abc1234"

	r := &fakeRunner{out: "should-not-be-used"}
	if got := Get(context.Background(), r); got != "1.2.3 (abc1234)" {
		t.Fatalf("unexpected version: %q", got)
	}
	if r.args != nil {
		t.Fatalf("git should not run when ldflags are set")
	}
}

func TestGetFallsBackToGit(t *testing.T) {
	oldV := Version
	t.Cleanup(func() { Version = oldV })
	Version = ""

	if got := Get(context.Background(), &fakeRunner{out: "v0.2.0"}); got != "v0.2.0" {
		t.Fatalf("unexpected version: %q", got)
	}
	if got := Get(context.Background(), &fakeRunner{err: errors.New("no git")}); got == "" {
		t.Fatalf("expected non-empty fallback version")
	}
}
