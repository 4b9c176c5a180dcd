package recon

import (
	"context"
	"time"

	"github.com/reconkit/reconkit/internal/auth"
	"github.com/reconkit/reconkit/internal/metrics"
)

// bodyRangeSpec caps the fingerprint body fetch to the leading 50KB.
const bodyRangeSpec = "0-51200"

// FetchHeaders retrieves the response headers of a URL, following up to
// three redirects. The reported status is that of the final response.
func (e *Engine) FetchHeaders(ctx context.Context, authz auth.Authorization, req HeadersRequest) (*HeadersResult, error) {
	const op = "http_headers"
	opStart := time.Now()
	defer func() {
		metrics.GetGlobalMetrics().RecordToolRunDuration(op, time.Since(opStart))
	}()

	if err := requireAuth(op, authz); err != nil {
		return nil, err
	}
	url, err := ValidateURL(req.URL)
	if err != nil {
		recordFailure(op, err)
		return nil, err
	}

	e.logger.InfoProbe("Fetching HTTP headers", url, "tool", op)
	res := e.runner.Run(ctx, headerFetchArgs(url), e.cfg.HTTPTimeout)
	if err := execError("curl", res); err != nil {
		recordFailure(op, err)
		e.logger.ErrorProbe("Header fetch failed", url, err)
		return nil, err
	}
	metrics.GetGlobalMetrics().IncrementToolRuns(op, "completed")

	status, headers := parseHeaderDump(res.Stdout)
	result := &HeadersResult{
		URL:        url,
		StatusCode: status,
		Headers:    headers,
		Timestamp:  time.Now().UTC(),
	}
	e.logger.InfoProbe("Header fetch completed", url, "status", status, "headers", len(headers))
	return result, nil
}

// DetectTech fingerprints the technologies behind a URL from its response
// headers and the leading slice of its body. The body fetch is best-effort;
// header-only detection still runs when it fails.
func (e *Engine) DetectTech(ctx context.Context, authz auth.Authorization, req TechDetectRequest) (*TechDetectResult, error) {
	const op = "tech_detect"
	opStart := time.Now()
	defer func() {
		metrics.GetGlobalMetrics().RecordToolRunDuration(op, time.Since(opStart))
	}()

	if err := requireAuth(op, authz); err != nil {
		return nil, err
	}
	url, err := ValidateURL(req.URL)
	if err != nil {
		recordFailure(op, err)
		return nil, err
	}

	e.logger.InfoProbe("Starting technology detection", url, "tool", op)
	headerRes := e.runner.Run(ctx, headerFetchArgs(url), e.cfg.HTTPTimeout)
	if err := execError("curl", headerRes); err != nil {
		recordFailure(op, err)
		e.logger.ErrorProbe("Technology detection failed", url, err)
		return nil, err
	}

	bodyRes := e.runner.Run(ctx,
		[]string{"curl", "-sS", "-m", "10", "--max-redirs", "3", "-L", "-r", bodyRangeSpec, url},
		e.cfg.HTTPTimeout)
	metrics.GetGlobalMetrics().IncrementToolRuns(op, "completed")

	status, headers := parseHeaderDump(headerRes.Stdout)
	techs := matchTechnologies(headers, bodyRes.Stdout)
	result := &TechDetectResult{
		URL:          url,
		StatusCode:   status,
		Technologies: techs,
		Headers:      headers,
		Timestamp:    time.Now().UTC(),
	}
	e.logger.InfoProbe("Technology detection completed", url, "technologies", len(techs))
	return result, nil
}

// headerFetchArgs is the argument vector for a redirect-following header
// fetch of url.
func headerFetchArgs(url string) []string {
	return []string{"curl", "-sS", "-o", "/dev/null", "-D", "-", "-m", "10", "--max-redirs", "3", "-L", url}
}
