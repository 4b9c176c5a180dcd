package recon

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/reconkit/reconkit/internal/auth"
	"github.com/reconkit/reconkit/internal/errors"
	"github.com/reconkit/reconkit/internal/metrics"
)

// commonSubdomains is the wordlist probed by EnumerateSubdomains.
var commonSubdomains = []string{
	"www", "mail", "ftp", "smtp", "pop", "imap", "webmail", "ns1", "ns2",
	"dns", "mx", "vpn", "remote", "portal", "admin", "dev", "staging",
	"api", "app", "cdn", "cloud", "git", "ci", "jenkins", "test",
	"beta", "demo", "blog", "shop", "store", "m", "mobile", "docs",
	"wiki", "help", "support", "status", "monitor", "login", "sso",
	"auth", "id", "accounts", "intranet", "internal", "db", "sql",
	"redis", "elastic", "kibana", "grafana", "prometheus", "vault",
	"s3", "bucket", "assets", "static", "media", "img", "images",
	"video", "web", "proxy", "gateway", "lb", "edge", "node",
}

type socialPlatform struct {
	name        string
	urlTemplate string
}

// socialPlatforms lists the platforms checked by SocialLookup. The {u}
// placeholder is replaced with the username.
var socialPlatforms = []socialPlatform{
	{"GitHub", "https://github.com/{u}"},
	{"GitLab", "https://gitlab.com/{u}"},
	{"Twitter/X", "https://x.com/{u}"},
	{"Reddit", "https://www.reddit.com/user/{u}"},
	{"Instagram", "https://www.instagram.com/{u}/"},
	{"LinkedIn", "https://www.linkedin.com/in/{u}/"},
	{"YouTube", "https://www.youtube.com/@{u}"},
	{"TikTok", "https://www.tiktok.com/@{u}"},
	{"Pinterest", "https://www.pinterest.com/{u}/"},
	{"Medium", "https://medium.com/@{u}"},
	{"Dev.to", "https://dev.to/{u}"},
	{"Keybase", "https://keybase.io/{u}"},
	{"HackerOne", "https://hackerone.com/{u}"},
	{"Bugcrowd", "https://bugcrowd.com/{u}"},
}

// emailPagePaths are the site paths tried by HarvestEmails, in order.
var emailPagePaths = []string{"", "/contact", "/about", "/impressum"}

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// EnumerateSubdomains resolves a wordlist of common prefixes under domain.
// Probes run concurrently in fixed-size batches; a probe that fails or
// resolves nothing is silently skipped. The returned subdomains are sorted
// alphabetically.
func (e *Engine) EnumerateSubdomains(ctx context.Context, authz auth.Authorization, req SubdomainRequest) (*SubdomainResult, error) {
	const op = "subdomain_enum"
	opStart := time.Now()
	defer func() {
		metrics.GetGlobalMetrics().RecordToolRunDuration(op, time.Since(opStart))
	}()

	if err := requireAuth(op, authz); err != nil {
		return nil, err
	}
	domain, err := ValidateTarget(req.Domain)
	if err != nil {
		recordFailure(op, err)
		return nil, err
	}

	e.logger.InfoProbe("Starting subdomain enumeration", domain, "tool", op, "wordlist", len(commonSubdomains))

	type hit struct {
		fqdn string
		ips  []string
	}
	slots := make([]*hit, len(commonSubdomains))
	runInBatches(ctx, "subdomain", len(commonSubdomains), e.cfg.SubdomainBatchSize, func(ctx context.Context, idx int) {
		fqdn := commonSubdomains[idx] + "." + domain
		res := e.runner.Run(ctx, []string{"dig", "+short", fqdn, "A"}, e.cfg.SubdomainProbeTimeout)
		ips := answerLines(res.Stdout)
		if len(ips) > 0 {
			slots[idx] = &hit{fqdn: fqdn, ips: ips}
		}
	})

	subdomains := make([]string, 0)
	rawLines := make([]string, 0)
	for _, h := range slots {
		if h == nil {
			continue
		}
		subdomains = append(subdomains, h.fqdn)
		rawLines = append(rawLines, h.fqdn+" -> "+strings.Join(h.ips, ", "))
	}
	sort.Strings(subdomains)
	metrics.GetGlobalMetrics().IncrementProbes("subdomain", "hit", len(subdomains))
	metrics.GetGlobalMetrics().IncrementProbes("subdomain", "miss", len(commonSubdomains)-len(subdomains))
	metrics.GetGlobalMetrics().IncrementToolRuns(op, "completed")

	raw := strings.Join(rawLines, "\n")
	if raw == "" {
		raw = "(no subdomains resolved)"
	}
	e.logger.InfoProbe("Subdomain enumeration completed", domain, "found", len(subdomains))
	return &SubdomainResult{
		Domain:     domain,
		Subdomains: subdomains,
		Raw:        raw,
		Timestamp:  time.Now().UTC(),
	}, nil
}

// SocialLookup checks whether a username exists on the known platforms. A
// profile counts as found when the platform answers 200, 301, or 302.
// Probes run concurrently in fixed-size batches; the result is sorted with
// found profiles first, then by platform name.
func (e *Engine) SocialLookup(ctx context.Context, authz auth.Authorization, req SocialRequest) (*SocialResult, error) {
	const op = "social_lookup"
	opStart := time.Now()
	defer func() {
		metrics.GetGlobalMetrics().RecordToolRunDuration(op, time.Since(opStart))
	}()

	if err := requireAuth(op, authz); err != nil {
		return nil, err
	}
	username, err := ValidateUsername(req.Username)
	if err != nil {
		recordFailure(op, err)
		return nil, err
	}

	e.logger.InfoProbe("Starting social lookup", username, "tool", op, "platforms", len(socialPlatforms))

	profiles := make([]SocialProfile, len(socialPlatforms))
	runInBatches(ctx, "social", len(socialPlatforms), e.cfg.SocialBatchSize, func(ctx context.Context, idx int) {
		platform := socialPlatforms[idx]
		url := strings.ReplaceAll(platform.urlTemplate, "{u}", username)
		res := e.runner.Run(ctx, []string{
			"curl", "-sS", "-o", "/dev/null", "-w", "%{http_code}", "-m", "8",
			"-L", "--max-redirs", "2", "-A", e.cfg.UserAgent, url,
		}, e.cfg.SocialProbeTimeout)
		code := strings.TrimSpace(res.Stdout)
		found := code == "200" || code == "301" || code == "302"
		profiles[idx] = SocialProfile{Platform: platform.name, URL: url, Found: found}
	})

	sort.SliceStable(profiles, func(i, j int) bool {
		if profiles[i].Found != profiles[j].Found {
			return profiles[i].Found
		}
		return profiles[i].Platform < profiles[j].Platform
	})
	foundCount := 0
	for _, p := range profiles {
		if p.Found {
			foundCount++
		}
	}
	metrics.GetGlobalMetrics().IncrementProbes("social", "hit", foundCount)
	metrics.GetGlobalMetrics().IncrementProbes("social", "miss", len(profiles)-foundCount)
	metrics.GetGlobalMetrics().IncrementToolRuns(op, "completed")

	e.logger.InfoProbe("Social lookup completed", username, "found", foundCount)
	return &SocialResult{
		Username:  username,
		Profiles:  profiles,
		Timestamp: time.Now().UTC(),
	}, nil
}

// HarvestEmails collects addresses for a domain from its MX records and a
// handful of public pages. Only addresses that mention the domain are kept,
// lowercased and sorted. For each page path the https fetch is tried first
// and http only when it fails.
func (e *Engine) HarvestEmails(ctx context.Context, authz auth.Authorization, req EmailRequest) (*EmailResult, error) {
	const op = "email_harvest"
	opStart := time.Now()
	defer func() {
		metrics.GetGlobalMetrics().RecordToolRunDuration(op, time.Since(opStart))
	}()

	if err := requireAuth(op, authz); err != nil {
		return nil, err
	}
	domain, err := ValidateTarget(req.Domain)
	if err != nil {
		recordFailure(op, err)
		return nil, err
	}

	e.logger.InfoProbe("Starting email harvest", domain, "tool", op)
	mxRes := e.runner.Run(ctx, []string{"dig", "+short", domain, "MX"}, e.cfg.DNSTimeout)
	if mxRes.NotFound() {
		err := errors.ErrToolNotFound("dig")
		recordFailure(op, err)
		return nil, err
	}
	mxRecords := nonEmptyLines(mxRes.Stdout)

	mxSummary := strings.Join(mxRecords, ", ")
	if mxSummary == "" {
		mxSummary = "none"
	}
	rawLines := []string{"MX records: " + mxSummary}

	seen := make(map[string]bool)
	lowerDomain := strings.ToLower(domain)
	for _, path := range emailPagePaths {
		if ctx.Err() != nil {
			break
		}
		for _, scheme := range []string{"https", "http"} {
			url := scheme + "://" + domain + path
			res := e.runner.Run(ctx, []string{"curl", "-sS", "-m", "8", "--max-redirs", "2", "-L", url}, e.cfg.EmailPageTimeout)
			if !res.Success() || res.Stdout == "" {
				continue
			}
			found := emailPattern.FindAllString(res.Stdout, -1)
			for _, addr := range found {
				if strings.Contains(strings.ToLower(addr), lowerDomain) {
					seen[strings.ToLower(addr)] = true
				}
			}
			if len(found) > 0 {
				rawLines = append(rawLines, fmt.Sprintf("%s: found %d email(s)", url, len(found)))
			}
			break
		}
	}

	emails := make([]string, 0, len(seen))
	for addr := range seen {
		emails = append(emails, addr)
	}
	sort.Strings(emails)
	metrics.GetGlobalMetrics().IncrementToolRuns(op, "completed")

	e.logger.InfoProbe("Email harvest completed", domain, "emails", len(emails), "mx_records", len(mxRecords))
	return &EmailResult{
		Domain:    domain,
		Emails:    emails,
		MXRecords: mxRecords,
		Raw:       strings.Join(rawLines, "\n"),
		Timestamp: time.Now().UTC(),
	}, nil
}

// WaybackURLs lists archived URLs for a domain from the public CDX index,
// deduplicated and sorted.
func (e *Engine) WaybackURLs(ctx context.Context, authz auth.Authorization, req WaybackRequest) (*WaybackResult, error) {
	const op = "wayback"
	opStart := time.Now()
	defer func() {
		metrics.GetGlobalMetrics().RecordToolRunDuration(op, time.Since(opStart))
	}()

	if err := requireAuth(op, authz); err != nil {
		return nil, err
	}
	domain, err := ValidateTarget(req.Domain)
	if err != nil {
		recordFailure(op, err)
		return nil, err
	}

	cdxURL := fmt.Sprintf(
		"http://web.archive.org/cdx/search/cdx?url=*.%s/*&output=text&fl=original&collapse=urlkey&limit=%d",
		domain, e.cfg.WaybackLimit)

	e.logger.InfoProbe("Starting archive listing", domain, "tool", op)
	res := e.runner.Run(ctx, []string{"curl", "-sS", "-m", "15", "--max-redirs", "2", cdxURL}, e.cfg.WaybackTimeout)
	if err := execError("curl", res); err != nil {
		recordFailure(op, err)
		e.logger.ErrorProbe("Archive listing failed", domain, err)
		return nil, err
	}
	metrics.GetGlobalMetrics().IncrementToolRuns(op, "completed")

	seen := make(map[string]bool)
	urls := make([]string, 0)
	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || (!strings.HasPrefix(line, "http://") && !strings.HasPrefix(line, "https://")) {
			continue
		}
		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}
	sort.Strings(urls)

	e.logger.InfoProbe("Archive listing completed", domain, "urls", len(urls))
	return &WaybackResult{
		Domain:    domain,
		URLs:      urls,
		Total:     len(urls),
		Timestamp: time.Now().UTC(),
	}, nil
}
