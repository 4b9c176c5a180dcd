package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reconkit/reconkit/internal/config"
)

func TestPIDFileLifecycle(t *testing.T) {
	tempDir := t.TempDir()
	pidFile := filepath.Join(tempDir, "reconkit.pid")

	t.Run("missing file reports not running", func(t *testing.T) {
		pid, running := pidFileExists(pidFile)
		assert.Equal(t, 0, pid)
		assert.False(t, running)
	})

	t.Run("own pid reports running", func(t *testing.T) {
		require.NoError(t, writePIDFile(pidFile, os.Getpid()))

		pid, running := pidFileExists(pidFile)
		assert.Equal(t, os.Getpid(), pid)
		assert.True(t, running)
	})

	t.Run("stale pid reports not running", func(t *testing.T) {
		// Way past pid_max on Linux, so no process can own it
		require.NoError(t, writePIDFile(pidFile, 99999999))

		pid, running := pidFileExists(pidFile)
		assert.Equal(t, 99999999, pid)
		assert.False(t, running)
	})

	t.Run("garbage content reports not running", func(t *testing.T) {
		require.NoError(t, os.WriteFile(pidFile, []byte("not-a-pid\n"), 0o600))

		pid, running := pidFileExists(pidFile)
		assert.Equal(t, 0, pid)
		assert.False(t, running)
	})

	t.Run("remove deletes the file", func(t *testing.T) {
		require.NoError(t, writePIDFile(pidFile, os.Getpid()))
		require.NoError(t, removePIDFile(pidFile))

		_, err := os.Stat(pidFile)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		assert.NoError(t, removePIDFile(filepath.Join(tempDir, "never-written.pid")))
	})

	t.Run("write creates parent directories", func(t *testing.T) {
		nested := filepath.Join(tempDir, "run", "sub", "reconkit.pid")
		require.NoError(t, writePIDFile(nested, 12345))

		data, err := os.ReadFile(nested)
		require.NoError(t, err)
		assert.Equal(t, "12345", string(data))
	})
}

func TestBuildServerArgs(t *testing.T) {
	// Save original flag state
	originalCfgFile := cfgFile
	originalVerbose := verbose
	originalHost := serverHost
	originalPort := serverPort

	defer func() {
		cfgFile = originalCfgFile
		verbose = originalVerbose
		serverHost = originalHost
		serverPort = originalPort
	}()

	tests := []struct {
		name     string
		cfgFile  string
		verbose  bool
		host     string
		port     int
		expected []string
	}{
		{
			name:     "defaults",
			expected: []string{"server", "start", "--foreground"},
		},
		{
			name:     "with config file",
			cfgFile:  "/etc/reconkit/config.yaml",
			expected: []string{"server", "start", "--foreground", "--config", "/etc/reconkit/config.yaml"},
		},
		{
			name:     "with verbose",
			verbose:  true,
			expected: []string{"server", "start", "--foreground", "--verbose"},
		},
		{
			name:     "with host and port",
			host:     "0.0.0.0",
			port:     9090,
			expected: []string{"server", "start", "--foreground", "--host", "0.0.0.0", "--port", "9090"},
		},
		{
			name:    "everything",
			cfgFile: "custom.yaml",
			verbose: true,
			host:    "127.0.0.1",
			port:    8443,
			expected: []string{
				"server", "start", "--foreground",
				"--config", "custom.yaml", "--verbose",
				"--host", "127.0.0.1", "--port", "8443",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgFile = tt.cfgFile
			verbose = tt.verbose
			serverHost = tt.host
			serverPort = tt.port

			assert.Equal(t, tt.expected, buildServerArgs())
		})
	}
}

func TestGetServerAddress(t *testing.T) {
	originalHost := serverHost
	originalPort := serverPort
	defer func() {
		serverHost = originalHost
		serverPort = originalPort
	}()

	cfg := config.Default()

	tests := []struct {
		name     string
		host     string
		port     int
		expected string
	}{
		{
			name:     "config address when no overrides",
			expected: "127.0.0.1:8000",
		},
		{
			name:     "host override keeps config port",
			host:     "0.0.0.0",
			expected: "0.0.0.0:8000",
		},
		{
			name:     "port override keeps config host",
			port:     9090,
			expected: "127.0.0.1:9090",
		},
		{
			name:     "both overridden",
			host:     "192.0.2.10",
			port:     8443,
			expected: "192.0.2.10:8443",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serverHost = tt.host
			serverPort = tt.port

			assert.Equal(t, tt.expected, getServerAddress(cfg))
		})
	}
}

func TestSetupLogFile(t *testing.T) {
	t.Run("creates nested log directory", func(t *testing.T) {
		tempDir := t.TempDir()
		logFile := filepath.Join(tempDir, "logs", "nested", "reconkit.log")

		require.NoError(t, setupLogFile(logFile))

		info, err := os.Stat(filepath.Dir(logFile))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("bare filename needs no directory", func(t *testing.T) {
		assert.NoError(t, setupLogFile("reconkit.log"))
	})
}

func TestShowLastLines(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "test.log")

	var sb strings.Builder
	for i := 1; i <= 10; i++ {
		sb.WriteString("log line ")
		sb.WriteString(strings.Repeat("x", i))
		sb.WriteString("\n")
	}
	require.NoError(t, os.WriteFile(logFile, []byte(sb.String()), 0o600))

	t.Run("shows only the tail", func(t *testing.T) {
		oldStdout := os.Stdout
		r, w, err := os.Pipe()
		require.NoError(t, err)
		os.Stdout = w

		showErr := showLastLines(logFile, 5)

		w.Close()
		os.Stdout = oldStdout

		output, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, showErr)

		outputStr := string(output)
		assert.Contains(t, outputStr, "log line "+strings.Repeat("x", 10))
		assert.Contains(t, outputStr, "log line "+strings.Repeat("x", 8))
		assert.NotContains(t, outputStr, "log line x\n")
	})

	t.Run("request larger than file shows everything", func(t *testing.T) {
		oldStdout := os.Stdout
		r, w, err := os.Pipe()
		require.NoError(t, err)
		os.Stdout = w

		showErr := showLastLines(logFile, 100)

		w.Close()
		os.Stdout = oldStdout

		output, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, showErr)

		assert.Contains(t, string(output), "log line x\n")
		assert.Contains(t, string(output), "log line "+strings.Repeat("x", 10))
	})

	t.Run("missing file returns error", func(t *testing.T) {
		err := showLastLines(filepath.Join(tempDir, "missing.log"), 10)
		assert.Error(t, err)
	})
}

func TestServerCommandFlags(t *testing.T) {
	assert.NotNil(t, serverStartCmd.Flags().Lookup("foreground"))
	assert.NotNil(t, serverStartCmd.Flags().Lookup("pid-file"))
	assert.NotNil(t, serverStartCmd.Flags().Lookup("log-file"))
	assert.NotNil(t, serverStartCmd.Flags().Lookup("host"))
	assert.NotNil(t, serverStartCmd.Flags().Lookup("port"))

	follow := serverLogsCmd.Flags().Lookup("follow")
	require.NotNil(t, follow)
	assert.Equal(t, "f", follow.Shorthand)

	lines := serverLogsCmd.Flags().Lookup("lines")
	require.NotNil(t, lines)
	assert.Equal(t, "50", lines.DefValue)
}
