package recon

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

const (
	// exitToolMissing mirrors the shell convention for a command that could
	// not be found.
	exitToolMissing = 127

	timeoutStderr = "Command timed out"

	// waitDelay bounds how long a killed process may hold its pipes open
	// before the runner gives up on collecting output.
	waitDelay = 5 * time.Second
)

// ExecResult is the outcome of one external command. A timed-out run is
// reported as ("", "Command timed out", 1); a missing executable as
// ("", "Command not found: <name>", 127). Neither is an error at this layer
// so that callers can apply their own policy.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports whether the command exited zero.
func (r ExecResult) Success() bool {
	return r.ExitCode == 0
}

// NotFound reports whether the executable was missing.
func (r ExecResult) NotFound() bool {
	return r.ExitCode == exitToolMissing
}

// TimedOut reports whether the command was killed at its deadline.
func (r ExecResult) TimedOut() bool {
	return r.ExitCode == 1 && r.Stderr == timeoutStderr
}

// Runner executes external commands. Implementations must accept the command
// as an argument vector and must never hand it to a shell.
type Runner interface {
	Run(ctx context.Context, argv []string, timeout time.Duration) ExecResult
}

// ExecRunner runs commands as real subprocesses.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes argv with the given timeout. The process is killed once the
// timeout or ctx expires; Run never leaves it behind.
func (r *ExecRunner) Run(ctx context.Context, argv []string, timeout time.Duration) ExecResult {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return ExecResult{Stderr: timeoutStderr, ExitCode: 1}
	}
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return ExecResult{Stderr: "Command not found: " + argv[0], ExitCode: exitToolMissing}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			if code < 0 {
				code = 1
			}
			return ExecResult{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: code}
		}
		return ExecResult{Stderr: err.Error(), ExitCode: 1}
	}
	return ExecResult{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: 0}
}
