// Package gitutil queries the local git repository. Detection is a pure
// read: every call opens the repository fresh so a branch switch is
// visible on the very next operation. Nothing here is ever cached.
package gitutil

import (
	"context"
	"errors"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Detector reads the currently checked-out branch of a repository
type Detector struct {
	workDir string
}

// NewDetector creates a detector for the repository containing workDir
func NewDetector(workDir string) *Detector {
	return &Detector{workDir: workDir}
}

// CurrentBranch returns the name of the checked-out branch. It fails
// with NotARepositoryError outside a repository and DetachedHeadError
// when HEAD does not point at a named branch.
func (d *Detector) CurrentBranch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	repo, err := gogit.PlainOpenWithOptions(d.workDir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return "", NotARepositoryError{Path: d.workDir}
		}
		return "", err
	}

	ref, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			// Unborn HEAD (fresh repo, no commits). The symbolic ref
			// still names the checked-out branch.
			head, refErr := repo.Reference(plumbing.HEAD, false)
			if refErr == nil && head.Type() == plumbing.SymbolicReference && head.Target().IsBranch() {
				return strings.TrimSpace(head.Target().Short()), nil
			}
			return "", DetachedHeadError{Path: d.workDir}
		}
		return "", err
	}

	if !ref.Name().IsBranch() {
		return "", DetachedHeadError{Path: d.workDir}
	}

	return strings.TrimSpace(ref.Name().Short()), nil
}

// IsRepository reports whether workDir is inside a git repository
func (d *Detector) IsRepository() bool {
	_, err := gogit.PlainOpenWithOptions(d.workDir, &gogit.PlainOpenOptions{DetectDotGit: true})
	return err == nil
}
