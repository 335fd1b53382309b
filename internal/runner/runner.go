// Package runner executes allow-listed kbc CLI commands with the branch
// override injected through an environment overlay. The overlay comes
// from a fresh resolution per invocation; this package never reads or
// mutates the process environment beyond snapshotting it.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/esnerda/kbc-branch-mcp/internal/dispatch"
	"github.com/esnerda/kbc-branch-mcp/internal/logger"
)

// AllowedCommands is the set of kbc commands the proxy tool will run
var AllowedCommands = []string{
	"sync push",
	"sync pull",
	"sync diff",
	"sync init",
	"remote job run",
	"remote table preview",
	"remote table download",
	"remote table upload",
	"remote create bucket",
	"remote create branch",
	"remote list branches",
	"local validate",
	"local create config",
	"local encrypt",
	"status",
}

// CommandNotAllowedError is returned for commands outside the allow-list
type CommandNotAllowedError struct {
	Command string
	Allowed []string
}

func (e CommandNotAllowedError) Error() string {
	return fmt.Sprintf("command %q is not allowed; available commands: %s", e.Command, strings.Join(e.Allowed, ", "))
}

// ErrTimeout is returned when the subprocess exceeds the configured timeout
var ErrTimeout = errors.New("command timed out")

// Result is the outcome of a CLI invocation. A non-zero exit code is a
// normal result, not a Go error.
type Result struct {
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
	Success  bool
}

// ValidateCommand reports whether command is allow-listed. Matching is
// case-insensitive on the command words, exact or prefix.
func ValidateCommand(command string) bool {
	command = strings.ToLower(strings.TrimSpace(command))
	for _, allowed := range AllowedCommands {
		if command == allowed || strings.HasPrefix(command, allowed+" ") {
			return true
		}
	}
	return false
}

// Runner executes kbc commands
type Runner struct {
	binary     string
	workingDir string
	timeout    time.Duration
	log        logger.Logger
}

// New creates a runner for binary executing in workingDir
func New(binary, workingDir string, timeout time.Duration, log logger.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{
		binary:     binary,
		workingDir: workingDir,
		timeout:    timeout,
		log:        log,
	}
}

// Run executes an allow-listed kbc command with args translated to
// flags and env applied over a snapshot of the process environment.
func (r *Runner) Run(ctx context.Context, command string, args Args, env dispatch.Env) (Result, error) {
	if !ValidateCommand(command) {
		return Result{}, CommandNotAllowedError{Command: command, Allowed: AllowedCommands}
	}

	argv := strings.Fields(command)
	argv = append(argv, FlagsFromArgs(args)...)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.binary, argv...)
	cmd.Dir = r.workingDir
	cmd.Env = env.Apply(os.Environ())

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	fullCommand := r.binary + " " + strings.Join(argv, " ")
	r.log.Debug("running kbc command", "command", fullCommand)

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return Result{}, fmt.Errorf("%w after %s: %s", ErrTimeout, r.timeout, command)
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return Result{}, fmt.Errorf("failed to run %s: %w", fullCommand, err)
		}
	}

	return Result{
		Command:  fullCommand,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
		Success:  exitCode == 0,
	}, nil
}
