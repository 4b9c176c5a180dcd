package recon

import (
	"context"
	"time"

	whoisparser "github.com/likexian/whois-parser"

	"github.com/reconkit/reconkit/internal/auth"
	"github.com/reconkit/reconkit/internal/metrics"
)

// Whois runs a registry lookup for a domain or IP address and attaches a
// structured summary when the response is parseable.
func (e *Engine) Whois(ctx context.Context, authz auth.Authorization, req WhoisRequest) (*WhoisResult, error) {
	const op = "whois"
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

	e.logger.InfoProbe("Starting whois lookup", target, "tool", op)
	res := e.runner.Run(ctx, []string{"whois", target}, e.cfg.WhoisTimeout)
	if err := execError("whois", res); err != nil {
		recordFailure(op, err)
		e.logger.ErrorProbe("Whois lookup failed", target, err)
		return nil, err
	}
	metrics.GetGlobalMetrics().IncrementToolRuns(op, "completed")

	raw := res.Stdout
	if raw == "" {
		raw = res.Stderr
	}
	result := &WhoisResult{
		Target:    target,
		Raw:       raw,
		Summary:   summarizeWhois(res.Stdout),
		Timestamp: time.Now().UTC(),
	}
	e.logger.InfoProbe("Whois lookup completed", target, "bytes", len(raw))
	return result, nil
}

// summarizeWhois extracts key registry fields from raw whois output.
// Responses the parser cannot handle yield nil rather than an error.
func summarizeWhois(raw string) *WhoisSummary {
	parsed, err := whoisparser.Parse(raw)
	if err != nil {
		return nil
	}
	summary := &WhoisSummary{}
	if parsed.Registrar != nil {
		summary.Registrar = parsed.Registrar.Name
	}
	if parsed.Domain != nil {
		summary.CreatedDate = parsed.Domain.CreatedDate
		summary.UpdatedDate = parsed.Domain.UpdatedDate
		summary.ExpirationDate = parsed.Domain.ExpirationDate
		summary.NameServers = parsed.Domain.NameServers
		summary.Statuses = parsed.Domain.Status
	}
	return summary
}
