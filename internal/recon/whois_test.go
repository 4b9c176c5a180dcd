package recon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reconkit/reconkit/internal/errors"
)

const verisignWhois = `   Domain Name: EXAMPLE.COM
   Registry Domain ID: 2336799_DOMAIN_COM-VRSN
   Registrar WHOIS Server: whois.iana.org
   Registrar URL: http://res-dom.iana.org
   Updated Date: 2023-08-14T07:01:38Z
   Creation Date: 1995-08-14T04:00:00Z
   Registry Expiry Date: 2024-08-13T04:00:00Z
   Registrar: RESERVED-Internet Assigned Numbers Authority
   Domain Status: clientDeleteProhibited https://icann.org/epp#clientDeleteProhibited
   Name Server: A.IANA-SERVERS.NET
   Name Server: B.IANA-SERVERS.NET
   DNSSEC: signedDelegation
`

func TestWhois(t *testing.T) {
	runner := &fakeRunner{
		respond: func([]string) ExecResult {
			return ExecResult{Stdout: verisignWhois}
		},
	}
	engine := newTestEngine(runner)

	result, err := engine.Whois(context.Background(), granted(), WhoisRequest{Target: " example.com "})
	require.NoError(t, err)

	assert.Equal(t, "example.com", result.Target)
	assert.Equal(t, verisignWhois, result.Raw)
	assert.False(t, result.Timestamp.IsZero())
	require.Equal(t, 1, runner.callCount())
	assert.Equal(t, []string{"whois", "example.com"}, runner.call(0))
}

func TestWhoisKeepsStdoutOnNonzeroExit(t *testing.T) {
	runner := &fakeRunner{
		respond: func([]string) ExecResult {
			return ExecResult{Stdout: "partial registry answer", Stderr: "fgets: connection reset", ExitCode: 1}
		},
	}
	engine := newTestEngine(runner)

	result, err := engine.Whois(context.Background(), granted(), WhoisRequest{Target: "example.com"})
	require.NoError(t, err)
	assert.Equal(t, "partial registry answer", result.Raw)
}

func TestWhoisToolMissing(t *testing.T) {
	runner := &fakeRunner{
		respond: func(argv []string) ExecResult {
			return ExecResult{Stderr: "Command not found: " + argv[0], ExitCode: exitToolMissing}
		},
	}
	engine := newTestEngine(runner)

	_, err := engine.Whois(context.Background(), granted(), WhoisRequest{Target: "example.com"})
	require.Error(t, err)
	assert.True(t, errors.IsToolUnavailable(err))
	assert.Contains(t, err.Error(), "whois")
}

func TestWhoisExecutionFailure(t *testing.T) {
	runner := &fakeRunner{
		respond: func([]string) ExecResult {
			return ExecResult{Stderr: "connect: network is unreachable", ExitCode: 2}
		},
	}
	engine := newTestEngine(runner)

	_, err := engine.Whois(context.Background(), granted(), WhoisRequest{Target: "example.com"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeExecution, errors.GetCode(err))
}

func TestWhoisTimeout(t *testing.T) {
	runner := &fakeRunner{
		respond: func([]string) ExecResult {
			return ExecResult{Stderr: timeoutStderr, ExitCode: 1}
		},
	}
	engine := newTestEngine(runner)

	_, err := engine.Whois(context.Background(), granted(), WhoisRequest{Target: "example.com"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeTimeout, errors.GetCode(err))
}

func TestSummarizeWhois(t *testing.T) {
	t.Run("registry answer", func(t *testing.T) {
		summary := summarizeWhois(verisignWhois)
		require.NotNil(t, summary)
		assert.NotEmpty(t, summary.Registrar)
		assert.NotEmpty(t, summary.CreatedDate)
		assert.Len(t, summary.NameServers, 2)
	})

	t.Run("empty output", func(t *testing.T) {
		assert.Nil(t, summarizeWhois(""))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Nil(t, summarizeWhois("No match for domain \"NOPE.EXAMPLE\".\n"))
	})
}
