package recon

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reconkit/reconkit/internal/auth"
	"github.com/reconkit/reconkit/internal/config"
	"github.com/reconkit/reconkit/internal/errors"
	"github.com/reconkit/reconkit/internal/logging"
)

// fakeRunner records every argument vector and answers from a canned
// response function.
type fakeRunner struct {
	mu      sync.Mutex
	calls   [][]string
	respond func(argv []string) ExecResult
}

func (f *fakeRunner) Run(_ context.Context, argv []string, _ time.Duration) ExecResult {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string(nil), argv...))
	f.mu.Unlock()
	if f.respond != nil {
		return f.respond(argv)
	}
	return ExecResult{}
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRunner) call(i int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i]
}

func newTestEngine(runner Runner) *Engine {
	return NewEngine(config.Default().Tools, runner, logging.NewDefault())
}

func granted() auth.Authorization {
	return auth.Grant("tester")
}

func TestExecErrorClassification(t *testing.T) {
	t.Run("zero exit is usable", func(t *testing.T) {
		assert.NoError(t, execError("whois", ExecResult{ExitCode: 0}))
	})

	t.Run("nonzero exit with stdout is usable", func(t *testing.T) {
		assert.NoError(t, execError("whois", ExecResult{Stdout: "partial", ExitCode: 1}))
	})

	t.Run("missing tool", func(t *testing.T) {
		err := execError("whois", ExecResult{Stderr: "Command not found: whois", ExitCode: 127})
		require.Error(t, err)
		assert.True(t, errors.IsToolUnavailable(err))
	})

	t.Run("timeout", func(t *testing.T) {
		err := execError("whois", ExecResult{Stderr: "Command timed out", ExitCode: 1})
		require.Error(t, err)
		assert.Equal(t, errors.CodeTimeout, errors.GetCode(err))
	})

	t.Run("nonzero exit without stdout", func(t *testing.T) {
		err := execError("whois", ExecResult{Stderr: "connection reset\n", ExitCode: 2})
		require.Error(t, err)
		assert.Equal(t, errors.CodeExecution, errors.GetCode(err))
		assert.Contains(t, err.Error(), "whois failed: connection reset")
	})
}

func TestOperationsRequireAuthorization(t *testing.T) {
	runner := &fakeRunner{}
	engine := newTestEngine(runner)
	ctx := context.Background()
	unauthorized := auth.Authorization{}

	ops := []struct {
		name string
		run  func() error
	}{
		{"whois", func() error {
			_, err := engine.Whois(ctx, unauthorized, WhoisRequest{Target: "example.com"})
			return err
		}},
		{"dns", func() error {
			_, err := engine.DNSLookup(ctx, unauthorized, DNSRequest{Target: "example.com"})
			return err
		}},
		{"reverse dns", func() error {
			_, err := engine.ReverseDNS(ctx, unauthorized, ReverseDNSRequest{IP: "192.0.2.1"})
			return err
		}},
		{"ping", func() error {
			_, err := engine.Ping(ctx, unauthorized, PingRequest{Target: "example.com"})
			return err
		}},
		{"portscan", func() error {
			_, err := engine.PortScan(ctx, unauthorized, PortScanRequest{Target: "example.com"})
			return err
		}},
		{"headers", func() error {
			_, err := engine.FetchHeaders(ctx, unauthorized, HeadersRequest{URL: "https://example.com"})
			return err
		}},
		{"tech detect", func() error {
			_, err := engine.DetectTech(ctx, unauthorized, TechDetectRequest{URL: "https://example.com"})
			return err
		}},
		{"subdomains", func() error {
			_, err := engine.EnumerateSubdomains(ctx, unauthorized, SubdomainRequest{Domain: "example.com"})
			return err
		}},
		{"social", func() error {
			_, err := engine.SocialLookup(ctx, unauthorized, SocialRequest{Username: "octocat"})
			return err
		}},
		{"emails", func() error {
			_, err := engine.HarvestEmails(ctx, unauthorized, EmailRequest{Domain: "example.com"})
			return err
		}},
		{"wayback", func() error {
			_, err := engine.WaybackURLs(ctx, unauthorized, WaybackRequest{Domain: "example.com"})
			return err
		}},
		{"subnet", func() error {
			_, err := engine.SubnetCalc(ctx, unauthorized, SubnetRequest{CIDR: "192.168.0.0/24"})
			return err
		}},
	}

	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			err := op.run()
			require.Error(t, err)
			assert.True(t, errors.IsUnauthorized(err))
			assert.Contains(t, err.Error(), auth.BlockedReason)
		})
	}
	assert.Equal(t, 0, runner.callCount(), "unauthorized operations must not spawn anything")
}

func TestValidationRejectsBeforeSpawn(t *testing.T) {
	runner := &fakeRunner{}
	engine := newTestEngine(runner)
	ctx := context.Background()

	cases := []struct {
		name string
		run  func() error
	}{
		{"whois shell metacharacters", func() error {
			_, err := engine.Whois(ctx, granted(), WhoisRequest{Target: "example.com;id"})
			return err
		}},
		{"dns bad record type", func() error {
			_, err := engine.DNSLookup(ctx, granted(), DNSRequest{Target: "example.com", RecordType: "BOGUS"})
			return err
		}},
		{"reverse dns not an ip", func() error {
			_, err := engine.ReverseDNS(ctx, granted(), ReverseDNSRequest{IP: "example.com"})
			return err
		}},
		{"ping count out of range", func() error {
			_, err := engine.Ping(ctx, granted(), PingRequest{Target: "example.com", Count: 99})
			return err
		}},
		{"portscan injection", func() error {
			_, err := engine.PortScan(ctx, granted(), PortScanRequest{Target: "example.com`id`"})
			return err
		}},
		{"portscan probe timeout", func() error {
			_, err := engine.PortScan(ctx, granted(), PortScanRequest{Target: "example.com", TimeoutPerPort: 9})
			return err
		}},
		{"headers missing scheme", func() error {
			_, err := engine.FetchHeaders(ctx, granted(), HeadersRequest{URL: "example.com"})
			return err
		}},
		{"tech url with dollar", func() error {
			_, err := engine.DetectTech(ctx, granted(), TechDetectRequest{URL: "https://example.com/$(id)"})
			return err
		}},
		{"subdomain pipe", func() error {
			_, err := engine.EnumerateSubdomains(ctx, granted(), SubdomainRequest{Domain: "a|b"})
			return err
		}},
		{"social username space", func() error {
			_, err := engine.SocialLookup(ctx, granted(), SocialRequest{Username: "two words"})
			return err
		}},
		{"email newline", func() error {
			_, err := engine.HarvestEmails(ctx, granted(), EmailRequest{Domain: "a\nb"})
			return err
		}},
		{"wayback empty", func() error {
			_, err := engine.WaybackURLs(ctx, granted(), WaybackRequest{Domain: "  "})
			return err
		}},
		{"subnet garbage", func() error {
			_, err := engine.SubnetCalc(ctx, granted(), SubnetRequest{CIDR: "not-a-cidr"})
			return err
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err), "got %v", err)
		})
	}
	assert.Equal(t, 0, runner.callCount(), "rejected input must never reach a subprocess")
}
