// Package cli implements the reconkit command-line interface.
// This file implements API key generation for API server authentication.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reconkit/reconkit/internal/auth"
)

var (
	// API key command flags
	apiKeyName string
	apiKeyJSON bool
)

// apiKeyCmd represents the apikey command group.
var apiKeyCmd = &cobra.Command{
	Use:     "apikey",
	Aliases: []string{"apikeys", "key", "keys"},
	Short:   "Manage API keys for server authentication",
	Long: `Manage API keys for authenticating clients against the reconkit API
server.

The server checks requests against a single bcrypt hash stored under
api.api_key_hash in the config file. Generate a key here, put the hash in
the config, and hand the plain key to the client. The plain key is shown
only once.

Examples:
  # Mint a key for a dashboard
  reconkit apikey generate --name "Dashboard"

  # Hash a key you already have
  reconkit apikey hash rk_abc123...`,
	Run: func(cmd *cobra.Command, args []string) {
		// Show help if no subcommand is provided
		_ = cmd.Help()
	},
}

// apiKeyGenerateCmd mints a new API key and its server-side hash.
var apiKeyGenerateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen", "create", "new"},
	Short:   "Generate an API key and its server-side hash",
	Long: `Generate a new API key together with the bcrypt hash the server
verifies it against.

The key is displayed only once. Store the hash in the config file and keep
the key itself with the client that will authenticate.

Examples:
  # Generate a key for an application
  reconkit apikey generate --name "Production Dashboard"

  # Generate a key and emit it as JSON
  reconkit apikey generate --name "CI" --json`,
	Run: runAPIKeyGenerateCommand,
}

// apiKeyHashCmd hashes an existing key for the server config.
var apiKeyHashCmd = &cobra.Command{
	Use:   "hash <key>",
	Short: "Hash an existing API key for the server config",
	Long: `Compute the bcrypt hash of an existing API key so it can be stored
under api.api_key_hash in the config file.

Examples:
  reconkit apikey hash rk_abc123...`,
	Args: cobra.ExactArgs(1),
	Run:  runAPIKeyHashCommand,
}

func runAPIKeyGenerateCommand(cmd *cobra.Command, args []string) {
	if err := executeGenerateAPIKey(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAPIKeyHashCommand(cmd *cobra.Command, args []string) {
	if err := executeHashAPIKey(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func executeGenerateAPIKey() error {
	if apiKeyName == "" {
		return fmt.Errorf("API key name is required")
	}

	generated, err := auth.GenerateAPIKey(apiKeyName)
	if err != nil {
		return fmt.Errorf("failed to generate API key: %w", err)
	}

	hash, err := auth.HashAPIKey(generated.Key)
	if err != nil {
		return fmt.Errorf("failed to hash API key: %w", err)
	}

	if apiKeyJSON {
		return printJSON(struct {
			*auth.GeneratedAPIKey
			Hash string `json:"hash"`
		}{generated, hash})
	}

	fmt.Println("API Key Generated")
	fmt.Println("═════════════════")
	fmt.Printf("Name: %s\n", generated.Name)
	fmt.Printf("Prefix: %s\n", generated.KeyPrefix)
	fmt.Printf("Full Key: %s\n", generated.Key)
	fmt.Printf("Created: %s\n", generated.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Println()
	fmt.Println(warnColor("IMPORTANT: Save this key now - it will not be shown again!"))
	fmt.Println()
	fmt.Println("To require this key on every API request, add the hash to config.yaml:")
	fmt.Println("  api:")
	fmt.Printf("    api_key_hash: \"%s\"\n", hash)
	fmt.Println()
	fmt.Println("Clients authenticate with the X-API-Key header:")
	fmt.Printf("  curl -H 'X-API-Key: %s' http://127.0.0.1:%d/api/v1/health\n", generated.Key, defaultAPIPort)
	return nil
}

func executeHashAPIKey(key string) error {
	if !auth.IsValidAPIKeyFormat(key) {
		return fmt.Errorf("key does not look like a reconkit API key (expected %s_... format)", auth.APIKeyPrefix)
	}

	hash, err := auth.HashAPIKey(key)
	if err != nil {
		return fmt.Errorf("failed to hash API key: %w", err)
	}

	if apiKeyJSON {
		return printJSON(struct {
			KeyPrefix string `json:"key_prefix"`
			Hash      string `json:"hash"`
		}{auth.CreateDisplayPrefix(key), hash})
	}

	fmt.Printf("Prefix: %s\n", auth.CreateDisplayPrefix(key))
	fmt.Printf("Hash: %s\n", hash)
	fmt.Println()
	fmt.Println("Add the hash to config.yaml under api.api_key_hash.")
	return nil
}

// init registers the apikey commands and flags
func init() {
	// Add apikey command group to root
	rootCmd.AddCommand(apiKeyCmd)

	// Add subcommands
	apiKeyCmd.AddCommand(apiKeyGenerateCmd)
	apiKeyCmd.AddCommand(apiKeyHashCmd)

	// Generate command flags
	apiKeyGenerateCmd.Flags().StringVarP(&apiKeyName, "name", "n", "", "Name for the API key (required)")
	apiKeyGenerateCmd.Flags().BoolVar(&apiKeyJSON, "json", false, "Emit the key and hash as JSON")
	_ = apiKeyGenerateCmd.MarkFlagRequired("name")

	// Hash command flags
	apiKeyHashCmd.Flags().BoolVar(&apiKeyJSON, "json", false, "Emit the hash as JSON")
}
