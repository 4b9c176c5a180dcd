// Package recon implements the reconnaissance engine. Every operation takes
// an authorization capability, validates its input before anything is
// spawned, runs the external tool through a Runner, and parses the output
// into a typed result. Operations share the error taxonomy of
// internal/errors: validation failures never spawn a process, a missing
// tool surfaces as ToolUnavailableError, and everything else that produced
// no usable output becomes an ExecutionError.
package recon

import (
	"strings"

	"github.com/reconkit/reconkit/internal/auth"
	"github.com/reconkit/reconkit/internal/config"
	"github.com/reconkit/reconkit/internal/errors"
	"github.com/reconkit/reconkit/internal/logging"
	"github.com/reconkit/reconkit/internal/metrics"
)

// Engine runs reconnaissance operations against external tools.
type Engine struct {
	cfg    config.ToolsConfig
	runner Runner
	logger *logging.Logger
}

// NewEngine creates an engine. A nil runner selects the subprocess runner;
// a nil logger selects the default logger.
func NewEngine(cfg config.ToolsConfig, runner Runner, logger *logging.Logger) *Engine {
	if runner == nil {
		runner = NewExecRunner()
	}
	if logger == nil {
		logger = logging.Default().WithComponent("recon")
	}
	return &Engine{cfg: cfg, runner: runner, logger: logger}
}

// execError classifies a finished run. A zero exit or any stdout counts as
// usable output and returns nil; tool is the binary name used in the error.
func execError(tool string, res ExecResult) error {
	if res.ExitCode == 0 || res.Stdout != "" {
		return nil
	}
	if res.NotFound() {
		return errors.ErrToolNotFound(tool)
	}
	if res.TimedOut() {
		return errors.ErrCommandTimeout(tool)
	}
	return errors.ErrExecutionFailed(tool, strings.TrimSpace(res.Stderr), res.ExitCode)
}

// recordFailure updates the failure counters for op based on the error
// class.
func recordFailure(op string, err error) {
	pm := metrics.GetGlobalMetrics()
	pm.IncrementToolRuns(op, "failed")
	switch {
	case errors.IsUnauthorized(err):
		pm.IncrementToolErrors(op, "unauthorized")
	case errors.IsValidation(err):
		pm.IncrementToolErrors(op, "validation")
	case errors.IsToolUnavailable(err):
		pm.IncrementToolErrors(op, "tool_unavailable")
	case errors.IsCode(err, errors.CodeTimeout):
		pm.IncrementToolTimeouts(op)
		pm.IncrementToolErrors(op, "timeout")
	default:
		pm.IncrementToolErrors(op, "execution_failed")
	}
}

// requireAuth is the authorization gate shared by every operation.
func requireAuth(op string, authz auth.Authorization) error {
	if err := auth.Require(authz); err != nil {
		recordFailure(op, err)
		return err
	}
	return nil
}
