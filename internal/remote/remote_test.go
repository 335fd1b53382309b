package remote

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	keboolaDir := filepath.Join(dir, ".keboola")
	if err := os.MkdirAll(keboolaDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(keboolaDir, "manifest.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// fakeRun records the invocation and optionally rewrites the manifest,
// imitating kbc remote create branch followed by the manifest update.
type fakeRun struct {
	stdout   string
	stderr   string
	exitCode int
	err      error
	onRun    func()
	gotArgs  []string
}

func (f *fakeRun) run(ctx context.Context, dir string, name string, args ...string) (string, string, int, error) {
	f.gotArgs = append([]string{name}, args...)
	if f.onRun != nil {
		f.onRun()
	}
	return f.stdout, f.stderr, f.exitCode, f.err
}

func newCreator(dir string, run *fakeRun) *Creator {
	c := NewCreator("kbc", dir, nil)
	c.run = run.run
	return c
}

func TestCreateBranchConfirmedByManifest(t *testing.T) {
	dir := t.TempDir()
	run := &fakeRun{onRun: func() {
		writeManifest(t, dir, `{"allowTargetEnv": true, "branches": [{"id": 972851, "path": "feature-auth"}]}`)
	}}
	c := newCreator(dir, run)

	info, err := c.CreateBranch(context.Background(), "feature/auth", "")
	if err != nil {
		t.Fatalf("CreateBranch() failed: %v", err)
	}
	if info.ID != "972851" {
		t.Errorf("ID = %q", info.ID)
	}

	want := []string{"kbc", "remote", "create", "branch", "-n", "feature/auth"}
	if len(run.gotArgs) != len(want) {
		t.Fatalf("argv = %v", run.gotArgs)
	}
	for i := range want {
		if run.gotArgs[i] != want[i] {
			t.Errorf("argv = %v, want %v", run.gotArgs, want)
		}
	}
}

func TestCreateBranchSucceedsDespiteNonZeroExit(t *testing.T) {
	// kbc sometimes exits non-zero on warnings after the branch was
	// actually created; the manifest is the source of truth.
	dir := t.TempDir()
	run := &fakeRun{exitCode: 1, stderr: "warning: something", onRun: func() {
		writeManifest(t, dir, `{"allowTargetEnv": true, "branches": [{"id": 42, "path": "feature-x"}]}`)
	}}
	c := newCreator(dir, run)

	info, err := c.CreateBranch(context.Background(), "feature/x", "")
	if err != nil {
		t.Fatalf("CreateBranch() failed: %v", err)
	}
	if info.ID != "42" {
		t.Errorf("ID = %q", info.ID)
	}
}

func TestCreateBranchFailure(t *testing.T) {
	dir := t.TempDir()
	run := &fakeRun{exitCode: 1, stderr: "invalid token"}
	c := newCreator(dir, run)

	_, err := c.CreateBranch(context.Background(), "feature/x", "")
	var creationErr CreationError
	if !errors.As(err, &creationErr) {
		t.Fatalf("expected CreationError, got %v", err)
	}
	if creationErr.Name != "feature/x" || creationErr.Output != "invalid token" {
		t.Errorf("error = %+v", creationErr)
	}
}

func TestCreateBranchZeroExitButMissingFromManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `{"allowTargetEnv": true, "branches": []}`)
	run := &fakeRun{stdout: "done"}
	c := newCreator(dir, run)

	_, err := c.CreateBranch(context.Background(), "feature/x", "")
	var creationErr CreationError
	if !errors.As(err, &creationErr) {
		t.Fatalf("expected CreationError, got %v", err)
	}
}

func TestCreateBranchRunError(t *testing.T) {
	dir := t.TempDir()
	run := &fakeRun{err: errors.New("exec: kbc: not found")}
	c := newCreator(dir, run)

	_, err := c.CreateBranch(context.Background(), "feature/x", "")
	var creationErr CreationError
	if !errors.As(err, &creationErr) {
		t.Fatalf("expected CreationError, got %v", err)
	}
}

func TestFindByName(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `{"allowTargetEnv": true, "branches": [{"id": 972851, "path": "feature-auth"}]}`)
	c := NewCreator("kbc", dir, nil)
	ctx := context.Background()

	info, found, err := c.FindByName(ctx, "feature/auth")
	if err != nil || !found {
		t.Fatalf("FindByName() = %v, %v", found, err)
	}
	if info.ID != "972851" {
		t.Errorf("ID = %q", info.ID)
	}

	_, found, err = c.FindByName(ctx, "feature/other")
	if err != nil || found {
		t.Errorf("unexpected match: %v, %v", found, err)
	}
}

func TestFindByNameMissingManifest(t *testing.T) {
	c := NewCreator("kbc", t.TempDir(), nil)

	_, found, err := c.FindByName(context.Background(), "feature/auth")
	if err != nil {
		t.Fatalf("missing manifest must not be an error: %v", err)
	}
	if found {
		t.Error("found a branch without a manifest")
	}
}
