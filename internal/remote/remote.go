// Package remote creates Keboola development branches through the kbc
// CLI. The server only depends on getting a structured branch ID back;
// the CLI and the local manifest it maintains are the transport.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/esnerda/kbc-branch-mcp/internal/logger"
	"github.com/esnerda/kbc-branch-mcp/internal/project"
)

// CreationError is returned when a remote branch could not be created
// or confirmed. Output carries the CLI's stderr/stdout for the caller.
type CreationError struct {
	Name   string
	Output string
}

func (e CreationError) Error() string {
	return fmt.Sprintf("failed to create Keboola branch %q: %s", e.Name, e.Output)
}

// runFunc executes the CLI; injectable for tests
type runFunc func(ctx context.Context, dir string, name string, args ...string) (stdout, stderr string, exitCode int, err error)

// Creator manages remote development branches
type Creator struct {
	binary     string
	workingDir string
	log        logger.Logger
	run        runFunc
}

// NewCreator creates a Creator that shells out to binary in workingDir
func NewCreator(binary, workingDir string, log logger.Logger) *Creator {
	if log == nil {
		log = logger.Nop()
	}
	return &Creator{
		binary:     binary,
		workingDir: workingDir,
		log:        log,
		run:        runCommand,
	}
}

// CreateBranch creates a development branch named name and returns its
// ID. The CLI may exit non-zero on validation warnings yet still create
// the branch, so success is confirmed against the manifest rather than
// the exit code. description is accepted for API symmetry; the CLI has
// no flag for it.
func (c *Creator) CreateBranch(ctx context.Context, name, description string) (project.BranchInfo, error) {
	_ = description

	stdout, stderr, exitCode, err := c.run(ctx, c.workingDir, c.binary, "remote", "create", "branch", "-n", name)
	if err != nil {
		return project.BranchInfo{}, CreationError{Name: name, Output: err.Error()}
	}
	c.log.Debug("kbc remote create branch finished", "name", name, "exit_code", exitCode)

	manifest, mErr := project.LoadManifest(c.workingDir)
	if mErr == nil {
		if info, ok := manifest.FindBranch(name); ok {
			return info, nil
		}
	}

	output := strings.TrimSpace(stderr)
	if output == "" {
		output = strings.TrimSpace(stdout)
	}
	if exitCode != 0 {
		return project.BranchInfo{}, CreationError{Name: name, Output: output}
	}
	return project.BranchInfo{}, CreationError{Name: name, Output: fmt.Sprintf("branch created but not found in manifest: %s", output)}
}

// FindByName looks up an existing remote branch in the local manifest.
// A missing manifest means "not found", not an error.
func (c *Creator) FindByName(ctx context.Context, name string) (project.BranchInfo, bool, error) {
	if err := ctx.Err(); err != nil {
		return project.BranchInfo{}, false, err
	}
	manifest, err := project.LoadManifest(c.workingDir)
	if err != nil {
		return project.BranchInfo{}, false, nil
	}
	info, ok := manifest.FindBranch(name)
	return info, ok, nil
}

func runCommand(ctx context.Context, dir string, name string, args ...string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
			err = nil
		}
	}
	return stdout.String(), stderr.String(), exitCode, err
}
