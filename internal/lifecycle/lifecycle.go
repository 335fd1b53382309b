// Package lifecycle implements the branch mapping operations exposed to
// callers: link, unlink, get and list. Link talks to the remote branch
// collaborator and persists the result; everything else is local.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/esnerda/kbc-branch-mcp/internal/logger"
	"github.com/esnerda/kbc-branch-mcp/internal/mapping"
	"github.com/esnerda/kbc-branch-mcp/internal/project"
	"github.com/esnerda/kbc-branch-mcp/internal/resolver"
)

// ProductionBranchLinkError is returned when link targets a default
// branch. Production never receives an explicit mapping.
type ProductionBranchLinkError struct {
	Branch string
}

func (e ProductionBranchLinkError) Error() string {
	return fmt.Sprintf("branch %q is a default branch and always targets production; it cannot be linked to a development branch", e.Branch)
}

// RemoteBranches is the remote branch-management collaborator
type RemoteBranches interface {
	CreateBranch(ctx context.Context, name, description string) (project.BranchInfo, error)
	FindByName(ctx context.Context, name string) (project.BranchInfo, bool, error)
}

// LinkOptions control the link operation. Branch defaults to the
// current git branch, RemoteName to the branch name.
type LinkOptions struct {
	Branch      string
	RemoteName  string
	Description string
}

// LinkResult is the outcome of a link operation. Created reflects the
// remote collaborator's signal, not the local mapping write.
type LinkResult struct {
	GitBranch        string  `json:"git_branch"`
	RemoteBranchID   string  `json:"keboola_branch_id"`
	RemoteBranchName string  `json:"keboola_branch_name"`
	Created          bool    `json:"created"`
	Previous         *string `json:"previous_keboola_branch_id,omitempty"`
}

// UnlinkResult is the outcome of an unlink operation
type UnlinkResult struct {
	GitBranch      string  `json:"git_branch"`
	RemoteBranchID *string `json:"unlinked_keboola_branch_id"`
}

// MappingInfo is the read-only view of a branch's mapping state.
// Linked=false with IsProduction=false is the normal "not yet linked"
// answer for a non-default branch, distinct from the production case.
type MappingInfo struct {
	GitBranch      string  `json:"git_branch"`
	RemoteBranchID *string `json:"keboola_branch_id"`
	Linked         bool    `json:"linked"`
	IsProduction   bool    `json:"is_production"`
}

// MappingList is the full store plus the live current branch
type MappingList struct {
	Mappings         mapping.BranchMapping `json:"mappings"`
	CurrentGitBranch string                `json:"current_git_branch,omitempty"`
}

// Manager implements the lifecycle operations
type Manager struct {
	detector        resolver.BranchDetector
	store           *mapping.Store
	remote          RemoteBranches
	isDefault       func(branch string) bool
	validateProject func() error
	log             logger.Logger
}

// NewManager wires the lifecycle operations. workingDir locates the
// Keboola project manifest used to validate initialization before
// linking.
func NewManager(detector resolver.BranchDetector, store *mapping.Store, remote RemoteBranches, isDefault func(string) bool, workingDir string, log logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		detector:        detector,
		store:           store,
		remote:          remote,
		isDefault:       isDefault,
		validateProject: func() error { return project.Validate(workingDir) },
		log:             log,
	}
}

// Link binds a git branch to a Keboola development branch, adopting an
// existing remote branch of the same name or creating one. An existing
// different mapping is overwritten without confirmation.
func (m *Manager) Link(ctx context.Context, opts LinkOptions) (LinkResult, error) {
	branch, err := m.targetBranch(ctx, opts.Branch)
	if err != nil {
		return LinkResult{}, err
	}

	if m.isDefault(branch) {
		return LinkResult{}, ProductionBranchLinkError{Branch: branch}
	}

	if err := m.validateProject(); err != nil {
		return LinkResult{}, err
	}

	remoteName := opts.RemoteName
	if remoteName == "" {
		remoteName = branch
	}

	previous, hadPrevious, err := m.store.Get(ctx, branch)
	if err != nil {
		return LinkResult{}, err
	}

	info, found, err := m.remote.FindByName(ctx, remoteName)
	if err != nil {
		return LinkResult{}, err
	}
	created := false
	if !found {
		info, err = m.remote.CreateBranch(ctx, remoteName, opts.Description)
		if err != nil {
			return LinkResult{}, err
		}
		created = true
	}

	id := info.ID
	if err := m.store.Add(ctx, branch, &id); err != nil {
		return LinkResult{}, err
	}

	result := LinkResult{
		GitBranch:        branch,
		RemoteBranchID:   id,
		RemoteBranchName: remoteName,
		Created:          created,
	}
	if hadPrevious && previous != nil && *previous != id {
		result.Previous = previous
	}
	m.log.Info("branch linked", "git_branch", branch, "keboola_branch_id", id, "created", created)
	return result, nil
}

// Unlink removes the local mapping for a branch. The remote branch is
// never deleted. Unlinking an unmapped branch is an error so callers
// get clear feedback.
func (m *Manager) Unlink(ctx context.Context, branch string) (UnlinkResult, error) {
	branch, err := m.targetBranch(ctx, branch)
	if err != nil {
		return UnlinkResult{}, err
	}

	removed, found, err := m.store.Remove(ctx, branch)
	if err != nil {
		return UnlinkResult{}, err
	}
	if !found {
		current, loadErr := m.store.Load(ctx)
		if loadErr != nil {
			return UnlinkResult{}, loadErr
		}
		return UnlinkResult{}, resolver.NoMappingError{LocalBranch: branch, Available: current.Keys()}
	}

	m.log.Info("branch unlinked", "git_branch", branch)
	return UnlinkResult{GitBranch: branch, RemoteBranchID: removed}, nil
}

// GetMapping reports the mapping state for a branch. Read-only; an
// unmapped branch is a normal answer, not an error.
func (m *Manager) GetMapping(ctx context.Context, branch string) (MappingInfo, error) {
	branch, err := m.targetBranch(ctx, branch)
	if err != nil {
		return MappingInfo{}, err
	}

	id, ok, err := m.store.Get(ctx, branch)
	if err != nil {
		return MappingInfo{}, err
	}
	if ok {
		return MappingInfo{GitBranch: branch, RemoteBranchID: id, Linked: true, IsProduction: id == nil}, nil
	}
	if m.isDefault(branch) {
		return MappingInfo{GitBranch: branch, Linked: true, IsProduction: true}, nil
	}
	return MappingInfo{GitBranch: branch, Linked: false, IsProduction: false}, nil
}

// ListMappings returns the full store plus the live current branch so
// callers can compare what is mapped against where they are. Listing
// succeeds even when branch detection fails.
func (m *Manager) ListMappings(ctx context.Context) (MappingList, error) {
	mappings, err := m.store.Load(ctx)
	if err != nil {
		return MappingList{}, err
	}

	current, err := m.detector.CurrentBranch(ctx)
	if err != nil {
		current = ""
	}

	return MappingList{Mappings: mappings, CurrentGitBranch: current}, nil
}

func (m *Manager) targetBranch(ctx context.Context, branch string) (string, error) {
	if branch != "" {
		return branch, nil
	}
	return m.detector.CurrentBranch(ctx)
}
