// Package cli implements the reconkit command-line interface.
// This package provides the Cobra-based command structure with subcommands
// for registry lookups, DNS queries, host probing, web reconnaissance,
// OSINT collection, and the API server lifecycle.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reconkit/reconkit/internal/api/handlers"
	"github.com/reconkit/reconkit/internal/config"
	"github.com/reconkit/reconkit/internal/logging"
)

const (
	// Default configuration constants.
	defaultAPIPort   = 8000     // API server listen port
	defaultPingCount = 4        // echo requests per ping run
	defaultPortSpec  = "1-1024" // default port scan range
)

var (
	cfgFile string
	verbose bool
)

// Build information - these will be set by ldflags during build.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "reconkit",
	Short: "Local reconnaissance toolkit",
	Long: `Reconkit is a local reconnaissance toolkit that wraps common lookup and
probing utilities (whois, dig, ping, nmap, curl) behind one CLI and HTTP API.
Results come back as structured records, and every probe is refused until the
operator confirms authorization for the targets under test.`,
	Version: getVersion(),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Bool("authorized", false,
		"confirm you are authorized to probe the requested targets")
	rootCmd.PersistentFlags().String("operator", "", "operator label recorded on the authorization grant")

	// Bind flags to viper
	if err := viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind verbose flag: %v\n", err)
	}
	if err := viper.BindPFlag("authorized", rootCmd.PersistentFlags().Lookup("authorized")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind authorized flag: %v\n", err)
	}
	if err := viper.BindPFlag("operator", rootCmd.PersistentFlags().Lookup("operator")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind operator flag: %v\n", err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in current directory
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match
	viper.AutomaticEnv()
	viper.SetEnvPrefix("RECONKIT")

	// Set defaults for common configuration
	setConfigDefaults()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}

	// Initialize structured logging after config is loaded
	initLogging()
}

// setConfigDefaults sets default values for configuration.
func setConfigDefaults() {
	// Tool configuration
	viper.SetDefault("tools.default_ports", defaultPortSpec)
	viper.SetDefault("tools.default_ping_count", defaultPingCount)
	viper.SetDefault("tools.user_agent", "Mozilla/5.0 (compatible; reconkit/1.0)")

	// API configuration
	viper.SetDefault("api.enabled", true)
	viper.SetDefault("api.listen_addr", "127.0.0.1")
	viper.SetDefault("api.port", defaultAPIPort)

	// Authorization configuration
	viper.SetDefault("auth.authorized", false)
	viper.SetDefault("auth.operator", "")

	// Logging configuration
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.output", "stdout")
	viper.SetDefault("logging.request_logging", true)
}

// getVersion returns the version string.
func getVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime)
}

// SetVersion sets the version information (called from main).
func SetVersion(v, c, bt string) {
	version = v
	commit = c
	buildTime = bt
	rootCmd.Version = getVersion()
	handlers.SetVersion(v)
}

// initLogging initializes structured logging based on configuration.
func initLogging() {
	// Try to load full config for logging settings
	cfg, err := config.Load(viper.ConfigFileUsed())
	if err != nil {
		// If config loading fails, use default logging
		logger := logging.NewDefault()
		logging.SetDefault(logger)
		return
	}

	// Convert config logging to our logging config
	logConfig := logging.Config{
		Level:     logging.LogLevel(cfg.Logging.Level),
		Format:    logging.LogFormat(cfg.Logging.Format),
		Output:    cfg.Logging.Output,
		AddSource: cfg.Logging.AddSource,
	}
	if verbose {
		logConfig.Level = logging.LevelDebug
	}

	// Create logger
	logger, err := logging.New(logConfig)
	if err != nil {
		// Fall back to default if creation fails
		logger = logging.NewDefault()
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	// Set as default logger
	logging.SetDefault(logger)

	// Log initialization if verbose
	if verbose {
		logging.Info("Structured logging initialized", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	}
}
