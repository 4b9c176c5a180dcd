package recon

import (
	"context"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/reconkit/reconkit/internal/auth"
	"github.com/reconkit/reconkit/internal/metrics"
)

// DNSLookup queries records of a single type for a domain or IP. The answer
// and authority sections are parsed into records; the raw dig output is
// returned alongside.
func (e *Engine) DNSLookup(ctx context.Context, authz auth.Authorization, req DNSRequest) (*DNSResult, error) {
	const op = "dns"
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
	rtype, err := ValidateRecordType(req.RecordType)
	if err != nil {
		recordFailure(op, err)
		return nil, err
	}

	e.logger.InfoProbe("Starting DNS lookup", target, "tool", op, "record_type", rtype)
	res := e.runner.Run(ctx, []string{"dig", "+noall", "+answer", "+authority", target, rtype}, e.cfg.DNSTimeout)
	if err := execError("dig", res); err != nil {
		recordFailure(op, err)
		e.logger.ErrorProbe("DNS lookup failed", target, err)
		return nil, err
	}
	metrics.GetGlobalMetrics().IncrementToolRuns(op, "completed")

	raw := res.Stdout
	if raw == "" {
		raw = res.Stderr
	}
	records := parseDNSRecords(res.Stdout)
	result := &DNSResult{
		Target:     target,
		RecordType: rtype,
		Raw:        raw,
		Records:    records,
		Timestamp:  time.Now().UTC(),
	}
	e.logger.InfoProbe("DNS lookup completed", target, "record_type", rtype, "records", len(records))
	return result, nil
}

// ReverseDNS resolves the PTR names of an IP address.
func (e *Engine) ReverseDNS(ctx context.Context, authz auth.Authorization, req ReverseDNSRequest) (*ReverseDNSResult, error) {
	const op = "reverse_dns"
	opStart := time.Now()
	defer func() {
		metrics.GetGlobalMetrics().RecordToolRunDuration(op, time.Since(opStart))
	}()

	if err := requireAuth(op, authz); err != nil {
		return nil, err
	}
	ip, err := ValidateIP(req.IP)
	if err != nil {
		recordFailure(op, err)
		return nil, err
	}

	e.logger.InfoProbe("Starting reverse DNS lookup", ip, "tool", op)
	res := e.runner.Run(ctx, []string{"dig", "+short", "-x", ip}, e.cfg.ReverseDNSTimeout)
	if err := execError("dig", res); err != nil {
		recordFailure(op, err)
		e.logger.ErrorProbe("Reverse DNS lookup failed", ip, err)
		return nil, err
	}
	metrics.GetGlobalMetrics().IncrementToolRuns(op, "completed")

	result := &ReverseDNSResult{
		IP:        ip,
		Hostnames: parseHostnames(res.Stdout),
		Timestamp: time.Now().UTC(),
	}
	if zone, zerr := dns.ReverseAddr(ip); zerr == nil {
		result.Zone = strings.TrimSuffix(zone, ".")
	}
	e.logger.InfoProbe("Reverse DNS lookup completed", ip, "hostnames", len(result.Hostnames))
	return result, nil
}
