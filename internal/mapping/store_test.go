package mapping

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isDefault(branch string) bool {
	return branch == "main" || branch == "master"
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "branch-mapping.json"), isDefault, nil)
}

func strPtr(s string) *string { return &s }

func TestLoadAbsentFile(t *testing.T) {
	store := newTestStore(t)

	m, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() on absent file: %v", err)
	}
	if len(m) != 0 {
		t.Errorf("expected empty mapping, got %v", m)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	want := BranchMapping{
		"main":         nil,
		"feature/auth": strPtr("972851"),
	}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	if got["main"] != nil {
		t.Errorf("expected main -> null, got %v", *got["main"])
	}
	if got["feature/auth"] == nil || *got["feature/auth"] != "972851" {
		t.Errorf("expected feature/auth -> 972851, got %v", got["feature/auth"])
	}
}

func TestSaveRejectsDefaultBranchMapping(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Save(ctx, BranchMapping{"main": strPtr("12345")})
	var invariant InvariantViolationError
	if !errors.As(err, &invariant) {
		t.Fatalf("expected InvariantViolationError, got %v", err)
	}
	if invariant.Branch != "main" || invariant.RemoteID != "12345" {
		t.Errorf("unexpected error fields: %+v", invariant)
	}

	// Nothing must have been written
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Error("store file was created despite invariant violation")
	}
}

func TestSaveAllowsExplicitProductionEntry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, BranchMapping{"master": nil}); err != nil {
		t.Fatalf("explicit null entry for default branch should be valid: %v", err)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	store := newTestStore(t)

	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := store.Load(context.Background())
	var corrupt CorruptStoreError
	if !errors.As(err, &corrupt) {
		t.Fatalf("expected CorruptStoreError, got %v", err)
	}
	if corrupt.Path != store.Path() {
		t.Errorf("expected path %s in error, got %s", store.Path(), corrupt.Path)
	}
}

func TestFileIsHumanEditable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Add(ctx, "feature/x", strPtr("42")); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "\n") || !strings.Contains(content, "\"feature/x\": \"42\"") {
		t.Errorf("expected indented JSON, got: %s", content)
	}
}

func TestAddRemoveGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Add(ctx, "feature/a", strPtr("1")); err != nil {
		t.Fatal(err)
	}
	if err := store.Add(ctx, "feature/b", nil); err != nil {
		t.Fatal(err)
	}

	id, ok, err := store.Get(ctx, "feature/a")
	if err != nil || !ok || id == nil || *id != "1" {
		t.Fatalf("Get(feature/a) = %v, %v, %v", id, ok, err)
	}

	// Explicit null entry is present but nil
	id, ok, err = store.Get(ctx, "feature/b")
	if err != nil || !ok || id != nil {
		t.Fatalf("Get(feature/b) = %v, %v, %v", id, ok, err)
	}

	removed, found, err := store.Remove(ctx, "feature/a")
	if err != nil || !found || removed == nil || *removed != "1" {
		t.Fatalf("Remove(feature/a) = %v, %v, %v", removed, found, err)
	}

	_, found, err = store.Remove(ctx, "feature/a")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("second Remove reported an entry")
	}
}

func TestAddOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Add(ctx, "feature/a", strPtr("1")); err != nil {
		t.Fatal(err)
	}
	if err := store.Add(ctx, "feature/a", strPtr("2")); err != nil {
		t.Fatal(err)
	}

	id, ok, _ := store.Get(ctx, "feature/a")
	if !ok || *id != "2" {
		t.Errorf("expected overwrite to 2, got %v", id)
	}
}

func TestKeysSorted(t *testing.T) {
	m := BranchMapping{"z": nil, "a": nil, "m": nil}
	keys := m.Keys()
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "m" || keys[2] != "z" {
		t.Errorf("expected sorted keys, got %v", keys)
	}
}
