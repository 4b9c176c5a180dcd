package recon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reconkit/reconkit/internal/errors"
)

const redirectedHeaderDump = "HTTP/1.1 301 Moved Permanently\r\n" +
	"Location: https://example.com/\r\n" +
	"\r\n" +
	"HTTP/2 200\r\n" +
	"server: nginx/1.25.3\r\n" +
	"content-type: text/html; charset=UTF-8\r\n" +
	"x-powered-by: Express\r\n" +
	"\r\n"

func TestFetchHeaders(t *testing.T) {
	runner := &fakeRunner{
		respond: func([]string) ExecResult {
			return ExecResult{Stdout: redirectedHeaderDump}
		},
	}
	engine := newTestEngine(runner)

	result, err := engine.FetchHeaders(context.Background(), granted(), HeadersRequest{URL: "https://example.com"})
	require.NoError(t, err)

	assert.Equal(t, 200, result.StatusCode, "the final hop of the redirect chain wins")
	assert.Equal(t, "nginx/1.25.3", result.Headers.Get("Server"))
	assert.Equal(t, "text/html; charset=UTF-8", result.Headers.Get("content-type"))

	require.Equal(t, 1, runner.callCount())
	assert.Equal(t,
		[]string{"curl", "-sS", "-o", "/dev/null", "-D", "-", "-m", "10", "--max-redirs", "3", "-L", "https://example.com"},
		runner.call(0))
}

func TestFetchHeadersCurlMissing(t *testing.T) {
	runner := &fakeRunner{
		respond: func(argv []string) ExecResult {
			return ExecResult{Stderr: "Command not found: " + argv[0], ExitCode: exitToolMissing}
		},
	}
	engine := newTestEngine(runner)

	_, err := engine.FetchHeaders(context.Background(), granted(), HeadersRequest{URL: "https://example.com"})
	require.Error(t, err)
	assert.True(t, errors.IsToolUnavailable(err))
}

func TestFetchHeadersResolveFailure(t *testing.T) {
	runner := &fakeRunner{
		respond: func([]string) ExecResult {
			return ExecResult{Stderr: "curl: (6) Could not resolve host: nope.invalid", ExitCode: 6}
		},
	}
	engine := newTestEngine(runner)

	_, err := engine.FetchHeaders(context.Background(), granted(), HeadersRequest{URL: "http://nope.invalid"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeExecution, errors.GetCode(err))
	assert.Contains(t, err.Error(), "curl failed")
}

func TestDetectTech(t *testing.T) {
	runner := &fakeRunner{
		respond: func(argv []string) ExecResult {
			if argv[2] == "-o" {
				return ExecResult{Stdout: redirectedHeaderDump}
			}
			return ExecResult{Stdout: "<html><script src=\"/wp-content/app.js\"></script><script src=\"jquery.min.js\"></script></html>"}
		},
	}
	engine := newTestEngine(runner)

	result, err := engine.DetectTech(context.Background(), granted(), TechDetectRequest{URL: "https://example.com"})
	require.NoError(t, err)

	assert.Equal(t, 200, result.StatusCode)
	assert.Equal(t, []string{"Express.js", "Nginx", "WordPress", "jQuery"}, result.Technologies)
	assert.Equal(t, "nginx/1.25.3", result.Headers.Get("Server"))

	require.Equal(t, 2, runner.callCount())
	body := runner.call(1)
	assert.Equal(t, []string{"curl", "-sS", "-m", "10", "--max-redirs", "3", "-L", "-r", "0-51200", "https://example.com"}, body)
}

func TestDetectTechBodyFetchIsBestEffort(t *testing.T) {
	runner := &fakeRunner{
		respond: func(argv []string) ExecResult {
			if argv[2] == "-o" {
				return ExecResult{Stdout: "HTTP/1.1 200 OK\r\nServer: nginx\r\n\r\n"}
			}
			return ExecResult{Stderr: "curl: (18) transfer closed", ExitCode: 18}
		},
	}
	engine := newTestEngine(runner)

	result, err := engine.DetectTech(context.Background(), granted(), TechDetectRequest{URL: "https://example.com"})
	require.NoError(t, err, "a failed body fetch still yields header detection")
	assert.Equal(t, []string{"Nginx"}, result.Technologies)
}

func TestDetectTechHeaderFetchFailureSurfaces(t *testing.T) {
	runner := &fakeRunner{
		respond: func([]string) ExecResult {
			return ExecResult{Stderr: "curl: (7) Failed to connect", ExitCode: 7}
		},
	}
	engine := newTestEngine(runner)

	_, err := engine.DetectTech(context.Background(), granted(), TechDetectRequest{URL: "https://example.com"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeExecution, errors.GetCode(err))
	assert.Equal(t, 1, runner.callCount(), "the body fetch never runs after a failed header fetch")
}
