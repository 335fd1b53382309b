package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/esnerda/kbc-branch-mcp/internal/dispatch"
	"github.com/esnerda/kbc-branch-mcp/internal/project"
	"github.com/esnerda/kbc-branch-mcp/internal/resolver"
	"github.com/esnerda/kbc-branch-mcp/internal/runner"
)

func (s *Server) handleKbc(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	command, ok := args["command"].(string)
	if !ok || command == "" {
		return nil, fmt.Errorf("invalid or missing command argument")
	}

	var cmdArgs runner.Args
	if raw, ok := args["args"].(map[string]any); ok {
		cmdArgs = runner.Args(raw)
	}

	// Reject bad commands before any resolution work
	if !runner.ValidateCommand(command) {
		return toolError(runner.CommandNotAllowedError{Command: command, Allowed: runner.AllowedCommands})
	}

	// The branch override only works on a properly initialized project
	if err := project.Validate(s.cfg.WorkingDir); err != nil {
		return toolError(err)
	}

	// Resolve fresh, run once within the resolution's scope, and report
	// the exact binding the subprocess saw.
	var result runner.Result
	var used resolver.Resolution
	err := s.resolver.WithResolution(ctx, func(ctx context.Context, res resolver.Resolution) error {
		used = res
		var runErr error
		result, runErr = s.runner.Run(ctx, command, cmdArgs, dispatch.EnvOverlay(res))
		return runErr
	})
	if err != nil {
		return toolError(err)
	}

	if result.Success {
		return jsonResult(map[string]any{
			"success":           true,
			"command":           result.Command,
			"git_branch":        used.LocalBranch,
			"keboola_branch_id": used.RemoteBranchID,
			"output":            result.Stdout,
			"exit_code":         result.ExitCode,
		})
	}
	return errorResult("CLI_ERROR", fmt.Sprintf("command exited with code %d", result.ExitCode), map[string]any{
		"command":           result.Command,
		"exit_code":         result.ExitCode,
		"stdout":            result.Stdout,
		"stderr":            result.Stderr,
		"git_branch":        used.LocalBranch,
		"keboola_branch_id": used.RemoteBranchID,
	})
}
