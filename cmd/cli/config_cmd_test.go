package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reconkit/reconkit/internal/config"
)

func TestRunConfigInit(t *testing.T) {
	originalOutput := configInitOutput
	originalForce := configInitForce
	defer func() {
		configInitOutput = originalOutput
		configInitForce = originalForce
	}()

	tempDir := t.TempDir()

	t.Run("writes default config", func(t *testing.T) {
		configInitOutput = filepath.Join(tempDir, "config.yaml")
		configInitForce = false

		oldStdout := os.Stdout
		r, w, err := os.Pipe()
		require.NoError(t, err)
		os.Stdout = w

		runErr := runConfigInit(configInitCmd, nil)

		w.Close()
		os.Stdout = oldStdout

		var buf bytes.Buffer
		_, err = buf.ReadFrom(r)
		require.NoError(t, err)
		require.NoError(t, runErr)

		assert.Contains(t, buf.String(), "Wrote default configuration")

		// The written file must round-trip through the loader
		cfg, err := config.Load(configInitOutput)
		require.NoError(t, err)
		assert.Equal(t, config.Default().Tools.DefaultPorts, cfg.Tools.DefaultPorts)
		assert.False(t, cfg.Auth.Authorized)
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		configInitOutput = filepath.Join(tempDir, "config.yaml")
		configInitForce = false

		err := runConfigInit(configInitCmd, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("force overwrites", func(t *testing.T) {
		configInitOutput = filepath.Join(tempDir, "config.yaml")
		configInitForce = true

		oldStdout := os.Stdout
		r, w, err := os.Pipe()
		require.NoError(t, err)
		os.Stdout = w

		runErr := runConfigInit(configInitCmd, nil)

		w.Close()
		os.Stdout = oldStdout

		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)

		assert.NoError(t, runErr)
	})
}

func TestRunConfigShow(t *testing.T) {
	originalConfigFile := viper.ConfigFileUsed()
	defer func() {
		viper.Reset()
		if originalConfigFile != "" {
			viper.SetConfigFile(originalConfigFile)
		}
	}()

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")
	require.NoError(t, config.Default().Save(configPath))

	viper.Reset()
	viper.SetConfigFile(configPath)

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	runErr := runConfigShow(configShowCmd, nil)

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	require.NoError(t, runErr)

	output := buf.String()
	assert.Contains(t, output, "# Effective configuration")
	assert.Contains(t, output, configPath)
	assert.Contains(t, output, "tools:")
	assert.Contains(t, output, "auth:")
}
