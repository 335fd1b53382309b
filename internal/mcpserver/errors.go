package mcpserver

import (
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/esnerda/kbc-branch-mcp/internal/gitutil"
	"github.com/esnerda/kbc-branch-mcp/internal/lifecycle"
	"github.com/esnerda/kbc-branch-mcp/internal/mapping"
	"github.com/esnerda/kbc-branch-mcp/internal/project"
	"github.com/esnerda/kbc-branch-mcp/internal/remote"
	"github.com/esnerda/kbc-branch-mcp/internal/resolver"
	"github.com/esnerda/kbc-branch-mcp/internal/runner"
)

// domainResult converts a typed domain error into a structured tool
// result. The second return value reports whether the error was
// recognized; unrecognized errors should surface as protocol errors.
func domainResult(err error) (*mcp.CallToolResult, error, bool) {
	var notRepo gitutil.NotARepositoryError
	if errors.As(err, &notRepo) {
		r, e := errorResult("GIT_ERROR", err.Error(), map[string]any{
			"fix": "Run the server inside a git repository working copy",
		})
		return r, e, true
	}

	var detached gitutil.DetachedHeadError
	if errors.As(err, &detached) {
		r, e := errorResult("GIT_ERROR", err.Error(), map[string]any{
			"fix": "Check out a named branch first (git switch <branch>)",
		})
		return r, e, true
	}

	var notInit project.NotInitializedError
	if errors.As(err, &notInit) {
		r, e := errorResult("PROJECT_NOT_INITIALIZED", err.Error(), map[string]any{
			"fix": project.InitFix,
		})
		return r, e, true
	}

	var noMapping resolver.NoMappingError
	if errors.As(err, &noMapping) {
		r, e := errorResult("NO_MAPPING", err.Error(), map[string]any{
			"git_branch":         noMapping.LocalBranch,
			"available_mappings": noMapping.Available,
			"fix":                "Use the link_branch tool to link this branch first",
		})
		return r, e, true
	}

	var prodLink lifecycle.ProductionBranchLinkError
	if errors.As(err, &prodLink) {
		r, e := errorResult("PRODUCTION_BRANCH", err.Error(), map[string]any{
			"git_branch": prodLink.Branch,
		})
		return r, e, true
	}

	var corrupt mapping.CorruptStoreError
	if errors.As(err, &corrupt) {
		r, e := errorResult("CORRUPT_STORE", err.Error(), map[string]any{
			"path": corrupt.Path,
			"fix":  "Fix or remove the mapping file, then re-link branches",
		})
		return r, e, true
	}

	var invariant mapping.InvariantViolationError
	if errors.As(err, &invariant) {
		r, e := errorResult("INVARIANT_VIOLATION", err.Error(), nil)
		return r, e, true
	}

	var creation remote.CreationError
	if errors.As(err, &creation) {
		r, e := errorResult("BRANCH_CREATION_ERROR", err.Error(), map[string]any{
			"branch_name": creation.Name,
		})
		return r, e, true
	}

	var notAllowed runner.CommandNotAllowedError
	if errors.As(err, &notAllowed) {
		r, e := errorResult("INVALID_COMMAND", err.Error(), map[string]any{
			"available_commands": notAllowed.Allowed,
		})
		return r, e, true
	}

	if errors.Is(err, runner.ErrTimeout) {
		r, e := errorResult("TIMEOUT", err.Error(), nil)
		return r, e, true
	}

	return nil, nil, false
}

// toolError converts any operation error to a tool result, falling back
// to a protocol error for the unexpected.
func toolError(err error) (*mcp.CallToolResult, error) {
	if result, rErr, ok := domainResult(err); ok {
		return result, rErr
	}
	return nil, err
}
