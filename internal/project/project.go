// Package project reads the local Keboola project manifest
// (.keboola/manifest.json) maintained by the kbc CLI. The manifest is
// the source of truth for which remote branches exist locally, and for
// whether the project was initialized with target-env support, without
// which the KBC_BRANCH_ID override is ignored by the CLI.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// InitFix is the remediation for an uninitialized or misconfigured project
const InitFix = "Run 'kbc sync init --allow-target-env' to initialize the project properly"

// NotInitializedError is returned when the Keboola project cannot be
// used for branch-scoped operations
type NotInitializedError struct {
	Path   string
	Reason string
}

func (e NotInitializedError) Error() string {
	return fmt.Sprintf("keboola project not usable (%s): %s", e.Path, e.Reason)
}

// Manifest is the subset of .keboola/manifest.json this server reads
type Manifest struct {
	AllowTargetEnv bool             `json:"allowTargetEnv"`
	Branches       []ManifestBranch `json:"branches"`
}

// ManifestBranch is a branch entry in the manifest
type ManifestBranch struct {
	ID   json.Number `json:"id"`
	Path string      `json:"path"`
}

// BranchInfo identifies a remote branch found in the manifest
type BranchInfo struct {
	ID   string
	Name string
	Path string
}

// ManifestPath returns the manifest location for a working directory
func ManifestPath(workingDir string) string {
	return filepath.Join(workingDir, ".keboola", "manifest.json")
}

// LoadManifest reads and parses the manifest for workingDir
func LoadManifest(workingDir string) (*Manifest, error) {
	path := ManifestPath(workingDir)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NotInitializedError{Path: path, Reason: "manifest not found; project is not initialized"}
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, NotInitializedError{Path: path, Reason: fmt.Sprintf("failed to parse manifest: %v", err)}
	}
	return &m, nil
}

// Validate checks that the project is initialized and was set up with
// --allow-target-env, so the branch override variable actually works.
func Validate(workingDir string) error {
	m, err := LoadManifest(workingDir)
	if err != nil {
		return err
	}
	if !m.AllowTargetEnv {
		return NotInitializedError{
			Path:   ManifestPath(workingDir),
			Reason: "project was not initialized with --allow-target-env; the KBC_BRANCH_ID override will not work",
		}
	}
	return nil
}

// FindBranch looks up a branch by name. kbc replaces "/" with "-" in
// manifest paths, so both the literal name and the transformed form
// are tried.
func (m *Manifest) FindBranch(name string) (BranchInfo, bool) {
	candidates := []string{name, strings.ReplaceAll(name, "/", "-")}
	for _, b := range m.Branches {
		for _, c := range candidates {
			if b.Path == c {
				return BranchInfo{ID: b.ID.String(), Name: name, Path: b.Path}, true
			}
		}
	}
	return BranchInfo{}, false
}
