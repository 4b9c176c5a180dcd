// Package cli implements the reconkit command-line interface.
// This file implements the OSINT collection commands.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/reconkit/reconkit/internal/recon"
)

// subdomainsCmd enumerates common subdomains of a domain.
var subdomainsCmd = &cobra.Command{
	Use:     "subdomains <domain>",
	Aliases: []string{"subdomain-enum", "subs"},
	Short:   "Enumerate common subdomains",
	Long: `Probe a built-in wordlist of common subdomain labels against a domain
and report the names that resolve.

Lookups run concurrently in bounded batches; the resolved list is sorted
and the raw section pairs each name with its addresses.`,
	Example: `  reconkit subdomains example.com --authorized
  reconkit subdomains example.com --authorized --json`,
	Args: cobra.ExactArgs(1),
	Run:  runSubdomainsCommand,
}

// socialCmd checks a username across social platforms.
var socialCmd = &cobra.Command{
	Use:     "social <username>",
	Aliases: []string{"social-lookup"},
	Short:   "Check a username across social platforms",
	Long: `Check whether a username exists on a fixed set of social platforms by
probing each profile URL.

Findings are best-effort: platforms that cloak missing profiles behind a
200 response can produce false positives.`,
	Example: `  reconkit social octocat --authorized
  reconkit social some.user --authorized --json`,
	Args: cobra.ExactArgs(1),
	Run:  runSocialCommand,
}

// emailsCmd harvests addresses mentioning a domain from public sources.
var emailsCmd = &cobra.Command{
	Use:     "emails <domain>",
	Aliases: []string{"email-harvest", "harvest"},
	Short:   "Harvest email addresses for a domain",
	Long: `Collect email addresses mentioning a domain from public search pages,
along with the domain's MX records.

Only addresses containing the domain are kept; the list comes back
lowercased, deduplicated, and sorted.`,
	Example: `  reconkit emails example.com --authorized
  reconkit emails example.com --authorized --json`,
	Args: cobra.ExactArgs(1),
	Run:  runEmailsCommand,
}

func runSubdomainsCommand(cmd *cobra.Command, args []string) {
	if err := executeSubdomains(args[0]); err != nil {
		exitToolError(err)
	}
}

func runSocialCommand(cmd *cobra.Command, args []string) {
	if err := executeSocial(args[0]); err != nil {
		exitToolError(err)
	}
}

func runEmailsCommand(cmd *cobra.Command, args []string) {
	if err := executeEmails(args[0]); err != nil {
		exitToolError(err)
	}
}

func executeSubdomains(domain string) error {
	env, err := newToolEnvironment()
	if err != nil {
		return err
	}

	result, err := env.engine.EnumerateSubdomains(context.Background(), env.authz, recon.SubdomainRequest{Domain: domain})
	if err != nil {
		return err
	}

	if outputJSON {
		return printJSON(result)
	}
	if outputRaw {
		printRaw(result.Raw)
		return nil
	}
	renderSubdomains(result)
	return nil
}

func executeSocial(username string) error {
	env, err := newToolEnvironment()
	if err != nil {
		return err
	}

	result, err := env.engine.SocialLookup(context.Background(), env.authz, recon.SocialRequest{Username: username})
	if err != nil {
		return err
	}

	if outputJSON {
		return printJSON(result)
	}
	renderSocial(result)
	return nil
}

func executeEmails(domain string) error {
	env, err := newToolEnvironment()
	if err != nil {
		return err
	}

	result, err := env.engine.HarvestEmails(context.Background(), env.authz, recon.EmailRequest{Domain: domain})
	if err != nil {
		return err
	}

	if outputJSON {
		return printJSON(result)
	}
	if outputRaw {
		printRaw(result.Raw)
		return nil
	}
	renderEmails(result)
	return nil
}

func init() {
	rootCmd.AddCommand(subdomainsCmd)
	rootCmd.AddCommand(socialCmd)
	rootCmd.AddCommand(emailsCmd)

	addOutputFlags(subdomainsCmd)
	addRawFlag(subdomainsCmd)
	addOutputFlags(socialCmd)
	addOutputFlags(emailsCmd)
	addRawFlag(emailsCmd)
}
