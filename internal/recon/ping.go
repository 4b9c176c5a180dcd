package recon

import (
	"context"
	"strconv"
	"time"

	"github.com/reconkit/reconkit/internal/auth"
	"github.com/reconkit/reconkit/internal/errors"
	"github.com/reconkit/reconkit/internal/metrics"
)

// Ping checks reachability with ICMP echo requests. A nonzero ping exit
// means the host did not answer, not a failed operation; only a missing
// binary or a timeout is an error.
func (e *Engine) Ping(ctx context.Context, authz auth.Authorization, req PingRequest) (*PingResult, error) {
	const op = "ping"
	opStart := time.Now()
	defer func() {
		metrics.GetGlobalMetrics().RecordToolRunDuration(op, time.Since(opStart))
	}()

	if err := requireAuth(op, authz); err != nil {
		return nil, err
	}
	target, err := ValidateTarget(req.Target)
	if err != nil {
		recordFailure(op, err)
		return nil, err
	}
	count, err := ValidatePingCount(req.Count, e.cfg.DefaultPingCount)
	if err != nil {
		recordFailure(op, err)
		return nil, err
	}

	e.logger.InfoProbe("Starting ping", target, "tool", op, "count", count)
	res := e.runner.Run(ctx, []string{"ping", "-c", strconv.Itoa(count), "-W", "2", target}, e.cfg.PingTimeout)
	if res.NotFound() {
		err := errors.ErrToolNotFound("ping")
		recordFailure(op, err)
		return nil, err
	}
	if res.TimedOut() {
		err := errors.ErrCommandTimeout("ping")
		recordFailure(op, err)
		return nil, err
	}
	metrics.GetGlobalMetrics().IncrementToolRuns(op, "completed")

	raw := res.Stdout
	if raw == "" {
		raw = res.Stderr
	}
	result := &PingResult{
		Target:    target,
		Alive:     res.Success(),
		Raw:       raw,
		Timestamp: time.Now().UTC(),
	}
	e.logger.InfoProbe("Ping completed", target, "alive", result.Alive)
	return result, nil
}
