// Package resolver computes which Keboola branch an operation targets.
//
// Resolution is deterministic and fail-closed: the current git branch is
// read fresh, looked up in the mapping store, and anything unmapped that
// is not a default branch is an error. Operations never fall back to
// production because a link step was skipped, and no resolution outlives
// the single operation it was computed for.
package resolver

import (
	"context"
	"fmt"

	"github.com/esnerda/kbc-branch-mcp/internal/logger"
	"github.com/esnerda/kbc-branch-mcp/internal/mapping"
)

// Resolution is the outcome of resolving the current git branch.
// RemoteBranchID is nil exactly when IsProduction is true.
type Resolution struct {
	LocalBranch    string
	RemoteBranchID *string
	IsProduction   bool
}

// RemoteID returns the branch ID or "" for production
func (r Resolution) RemoteID() string {
	if r.RemoteBranchID == nil {
		return ""
	}
	return *r.RemoteBranchID
}

// NoMappingError is returned when the current branch has no mapping and
// is not a default branch. It carries the store's current keys so the
// caller can remediate without a second query.
type NoMappingError struct {
	LocalBranch string
	Available   []string
}

func (e NoMappingError) Error() string {
	return fmt.Sprintf("git branch %q is not linked to any Keboola branch; run link_branch first (available mappings: %v)",
		e.LocalBranch, e.Available)
}

// BranchDetector reads the currently checked-out git branch
type BranchDetector interface {
	CurrentBranch(ctx context.Context) (string, error)
}

// MappingSource reads the current branch mapping
type MappingSource interface {
	Load(ctx context.Context) (mapping.BranchMapping, error)
}

// Resolver composes the branch detector and the mapping store. It holds
// no mutable state; both collaborators are consulted on every call.
type Resolver struct {
	detector  BranchDetector
	store     MappingSource
	isDefault func(branch string) bool
	log       logger.Logger
}

// New creates a resolver. isDefault reports whether a branch name is a
// configured default branch (implicitly production).
func New(detector BranchDetector, store MappingSource, isDefault func(string) bool, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{
		detector:  detector,
		store:     store,
		isDefault: isDefault,
		log:       log,
	}
}

// Resolve computes the Resolution for the current git branch.
//
// An explicit store entry (including an explicit null) is returned
// verbatim. A default branch without an entry is implicitly production.
// Any other branch without an entry fails with NoMappingError.
func (r *Resolver) Resolve(ctx context.Context) (Resolution, error) {
	branch, err := r.detector.CurrentBranch(ctx)
	if err != nil {
		return Resolution{}, err
	}

	m, err := r.store.Load(ctx)
	if err != nil {
		return Resolution{}, err
	}

	if id, ok := m[branch]; ok {
		res := Resolution{LocalBranch: branch, RemoteBranchID: id, IsProduction: id == nil}
		r.log.Debug("branch resolved", "git_branch", branch, "keboola_branch_id", res.RemoteID(), "production", res.IsProduction)
		return res, nil
	}

	if r.isDefault(branch) {
		r.log.Debug("branch resolved", "git_branch", branch, "production", true)
		return Resolution{LocalBranch: branch, RemoteBranchID: nil, IsProduction: true}, nil
	}

	return Resolution{}, NoMappingError{LocalBranch: branch, Available: m.Keys()}
}

// RequireResolution is Resolve for side-effecting callers. The contract
// is identical; it exists so call sites that must treat an unmapped
// branch as a hard stop read as such.
func (r *Resolver) RequireResolution(ctx context.Context) (Resolution, error) {
	return r.Resolve(ctx)
}

// WithResolution resolves fresh and runs fn exactly once with the
// result. The Resolution is scoped to fn; callers must not retain it
// across operations, which is what keeps a long-lived session tracking
// live branch switches.
func (r *Resolver) WithResolution(ctx context.Context, fn func(ctx context.Context, res Resolution) error) error {
	res, err := r.RequireResolution(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, res)
}
