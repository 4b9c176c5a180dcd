// Package cli implements the reconkit command-line interface.
// This file implements the web reconnaissance commands.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/reconkit/reconkit/internal/recon"
)

// headersCmd fetches the response headers of a URL.
var headersCmd = &cobra.Command{
	Use:   "headers <url>",
	Short: "Fetch HTTP response headers",
	Long: `Fetch the response headers of a URL with curl, following redirects.

The reported status and headers belong to the final response in the chain.
URLs must use the http or https scheme.`,
	Example: `  reconkit headers https://example.com --authorized
  reconkit headers https://example.com --authorized --json`,
	Args: cobra.ExactArgs(1),
	Run:  runHeadersCommand,
}

// techCmd fingerprints the technologies behind a URL.
var techCmd = &cobra.Command{
	Use:     "tech <url>",
	Aliases: []string{"tech-detect", "fingerprint"},
	Short:   "Detect web technologies",
	Long: `Fingerprint the server, frameworks, and libraries behind a URL from its
response headers and a bounded slice of the page body.

Detection is signature-based and reports only well-known markers such as
server banners, cookie names, and asset paths.`,
	Example: `  reconkit tech https://example.com --authorized
  reconkit tech https://blog.example.com --authorized --json`,
	Args: cobra.ExactArgs(1),
	Run:  runTechCommand,
}

// waybackCmd lists archived URLs for a domain.
var waybackCmd = &cobra.Command{
	Use:     "wayback <domain>",
	Aliases: []string{"archive"},
	Short:   "List archived URLs from the Wayback Machine",
	Long: `List URLs the Wayback Machine has archived for a domain and its
subdomains.

Results are deduplicated, sorted, and capped at the configured limit.`,
	Example: `  reconkit wayback example.com --authorized
  reconkit wayback example.com --authorized --json`,
	Args: cobra.ExactArgs(1),
	Run:  runWaybackCommand,
}

func runHeadersCommand(cmd *cobra.Command, args []string) {
	if err := executeHeaders(args[0]); err != nil {
		exitToolError(err)
	}
}

func runTechCommand(cmd *cobra.Command, args []string) {
	if err := executeTech(args[0]); err != nil {
		exitToolError(err)
	}
}

func runWaybackCommand(cmd *cobra.Command, args []string) {
	if err := executeWayback(args[0]); err != nil {
		exitToolError(err)
	}
}

func executeHeaders(url string) error {
	env, err := newToolEnvironment()
	if err != nil {
		return err
	}

	result, err := env.engine.FetchHeaders(context.Background(), env.authz, recon.HeadersRequest{URL: url})
	if err != nil {
		return err
	}

	if outputJSON {
		return printJSON(result)
	}
	renderHeaders(result)
	return nil
}

func executeTech(url string) error {
	env, err := newToolEnvironment()
	if err != nil {
		return err
	}

	result, err := env.engine.DetectTech(context.Background(), env.authz, recon.TechDetectRequest{URL: url})
	if err != nil {
		return err
	}

	if outputJSON {
		return printJSON(result)
	}
	renderTech(result)
	return nil
}

func executeWayback(domain string) error {
	env, err := newToolEnvironment()
	if err != nil {
		return err
	}

	result, err := env.engine.WaybackURLs(context.Background(), env.authz, recon.WaybackRequest{Domain: domain})
	if err != nil {
		return err
	}

	if outputJSON {
		return printJSON(result)
	}
	renderWayback(result)
	return nil
}

func init() {
	rootCmd.AddCommand(headersCmd)
	rootCmd.AddCommand(techCmd)
	rootCmd.AddCommand(waybackCmd)

	addOutputFlags(headersCmd)
	addOutputFlags(techCmd)
	addOutputFlags(waybackCmd)
}
