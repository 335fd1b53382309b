package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/esnerda/kbc-branch-mcp/internal/dispatch"
)

// writeScript writes an executable shell script to use as the kbc binary.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test binary is a shell script")
	}
	path := filepath.Join(t.TempDir(), "fake-kbc")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		command string
		want    bool
	}{
		{"sync push", true},
		{"sync pull", true},
		{"status", true},
		{"SYNC PUSH", true},
		{"  sync push  ", true},
		{"sync push --force", true},
		{"remote table preview in.c-main.users", true},
		{"remote workspace create", false},
		{"sync", false},
		{"sync pushx", false},
		{"rm -rf /", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidateCommand(tt.command); got != tt.want {
			t.Errorf("ValidateCommand(%q) = %v, want %v", tt.command, got, tt.want)
		}
	}
}

func TestRunRejectsUnlistedCommand(t *testing.T) {
	r := New("echo", t.TempDir(), time.Second, nil)

	_, err := r.Run(context.Background(), "remote workspace create", nil, dispatch.Env{})
	var notAllowed CommandNotAllowedError
	if !errors.As(err, &notAllowed) {
		t.Fatalf("expected CommandNotAllowedError, got %v", err)
	}
	if notAllowed.Command != "remote workspace create" {
		t.Errorf("Command = %q", notAllowed.Command)
	}
	if len(notAllowed.Allowed) == 0 {
		t.Error("error should carry the allow-list")
	}
}

func TestRunCapturesOutputAndFlags(t *testing.T) {
	bin := writeScript(t, `echo "argv: $@"; echo "oops" >&2`)
	r := New(bin, t.TempDir(), 5*time.Second, nil)

	result, err := r.Run(context.Background(), "remote job run", Args{"component_id": "keboola.ex-db", "force": true}, dispatch.Env{})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if !result.Success || result.ExitCode != 0 {
		t.Errorf("expected success, got %+v", result)
	}
	if !strings.Contains(result.Stdout, "argv: remote job run --component-id keboola.ex-db --force") {
		t.Errorf("Stdout = %q", result.Stdout)
	}
	if !strings.Contains(result.Stderr, "oops") {
		t.Errorf("Stderr = %q", result.Stderr)
	}
}

func TestRunNonZeroExitIsData(t *testing.T) {
	bin := writeScript(t, `echo "push failed" >&2; exit 3`)
	r := New(bin, t.TempDir(), 5*time.Second, nil)

	result, err := r.Run(context.Background(), "sync push", nil, dispatch.Env{})
	if err != nil {
		t.Fatalf("non-zero exit must not be a Go error: %v", err)
	}
	if result.Success || result.ExitCode != 3 {
		t.Errorf("expected exit code 3 result, got %+v", result)
	}
	if !strings.Contains(result.Stderr, "push failed") {
		t.Errorf("Stderr = %q", result.Stderr)
	}
}

func TestRunTimeout(t *testing.T) {
	bin := writeScript(t, `sleep 10`)
	r := New(bin, t.TempDir(), 100*time.Millisecond, nil)

	_, err := r.Run(context.Background(), "sync pull", nil, dispatch.Env{})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestRunMissingBinary(t *testing.T) {
	r := New("definitely-not-a-real-binary-7f3a", t.TempDir(), time.Second, nil)

	_, err := r.Run(context.Background(), "status", nil, dispatch.Env{})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestRunInjectsEnvOverlay(t *testing.T) {
	bin := writeScript(t, `echo "branch=${`+dispatch.BranchIDEnvVar+`:-unset}"`)
	r := New(bin, t.TempDir(), 5*time.Second, nil)
	ctx := context.Background()

	env := dispatch.Env{Set: map[string]string{dispatch.BranchIDEnvVar: "972851"}}
	result, err := r.Run(ctx, "status", nil, env)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if !strings.Contains(result.Stdout, "branch=972851") {
		t.Errorf("Stdout = %q", result.Stdout)
	}

	result, err = r.Run(ctx, "status", nil, dispatch.Env{Unset: []string{dispatch.BranchIDEnvVar}})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if !strings.Contains(result.Stdout, "branch=unset") {
		t.Errorf("expected variable absent for production, got %q", result.Stdout)
	}
}

func TestRunRunsInWorkingDir(t *testing.T) {
	bin := writeScript(t, `pwd`)
	workDir := t.TempDir()
	r := New(bin, workDir, 5*time.Second, nil)

	result, err := r.Run(context.Background(), "status", nil, dispatch.Env{})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	got, err := filepath.EvalSymlinks(strings.TrimSpace(result.Stdout))
	if err != nil {
		t.Fatal(err)
	}
	want, err := filepath.EvalSymlinks(workDir)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("pwd = %q, want %q", got, want)
	}
}
