// Package cli implements the reconkit command-line interface.
// This file implements the configuration inspection commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/reconkit/reconkit/internal/config"
)

var (
	configInitOutput string
	configInitForce  bool
)

// configCmd represents the config command group.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and initialize configuration",
	Long: `Inspect the effective configuration or write a default config file.

Settings load from the config file, with RECONKIT_* environment variables
and command line flags layered on top.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// configInitCmd writes a default config file.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a config file populated with the default settings.

Existing files are left alone unless --force is given.`,
	Example: `  reconkit config init
  reconkit config init --output /etc/reconkit/config.yaml
  reconkit config init --force`,
	RunE: runConfigInit,
}

// configShowCmd prints the effective configuration.
var configShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"view", "dump"},
	Short:   "Print the effective configuration",
	Long: `Print the configuration the commands will actually run with, after the
config file has been applied on top of the defaults.`,
	Example: `  reconkit config show
  reconkit config show --config /etc/reconkit/config.yaml`,
	RunE: runConfigShow,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configInitOutput); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists, use --force to overwrite", configInitOutput)
	}

	if err := config.Default().Save(configInitOutput); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Wrote default configuration to %s\n", configInitOutput)
	fmt.Println("Review the auth section before confirming authorization.")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(getConfigFilePath())
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}

	fmt.Printf("# Effective configuration (%s)\n", getConfigFilePath())
	fmt.Print(string(data))
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "config.yaml", "Path to write the config file")
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing file")
}
