// Package cli implements the reconkit command-line interface.
// This file implements the registry and DNS lookup commands.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/reconkit/reconkit/internal/recon"
)

var dnsRecordType string

// whoisCmd looks up registration data for a domain or IP.
var whoisCmd = &cobra.Command{
	Use:   "whois <domain-or-ip>",
	Short: "Registry lookup for a domain or IP address",
	Long: `Look up registration data for a domain or IP address with the system
whois client.

A summary section is parsed out of the registry response on a best-effort
basis. The full response is kept on the result and available with --raw.`,
	Example: `  reconkit whois example.com --authorized
  reconkit whois 93.184.216.34 --authorized --json`,
	Args: cobra.ExactArgs(1),
	Run:  runWhoisCommand,
}

// dnsCmd resolves records of one type for a target.
var dnsCmd = &cobra.Command{
	Use:   "dns <target>",
	Short: "DNS record lookup",
	Long: `Resolve DNS records for a target using dig.

The record type defaults to A. Supported types are A, AAAA, MX, NS, TXT,
CNAME, SOA, PTR, SRV, and ANY.`,
	Example: `  reconkit dns example.com --authorized
  reconkit dns example.com --type MX --authorized
  reconkit dns example.com -t TXT --authorized --json`,
	Args: cobra.ExactArgs(1),
	Run:  runDNSCommand,
}

// rdnsCmd resolves PTR names for an IP address.
var rdnsCmd = &cobra.Command{
	Use:     "rdns <ip>",
	Aliases: []string{"reverse-dns", "ptr"},
	Short:   "Reverse DNS lookup for an IP address",
	Long: `Resolve the PTR names of an IPv4 or IPv6 address.

The result includes the in-addr.arpa or ip6.arpa zone the query resolved
through.`,
	Example: `  reconkit rdns 8.8.8.8 --authorized
  reconkit rdns 2001:4860:4860::8888 --authorized --json`,
	Args: cobra.ExactArgs(1),
	Run:  runReverseDNSCommand,
}

func runWhoisCommand(cmd *cobra.Command, args []string) {
	if err := executeWhois(args[0]); err != nil {
		exitToolError(err)
	}
}

func runDNSCommand(cmd *cobra.Command, args []string) {
	if err := executeDNS(args[0]); err != nil {
		exitToolError(err)
	}
}

func runReverseDNSCommand(cmd *cobra.Command, args []string) {
	if err := executeReverseDNS(args[0]); err != nil {
		exitToolError(err)
	}
}

func executeWhois(target string) error {
	env, err := newToolEnvironment()
	if err != nil {
		return err
	}

	result, err := env.engine.Whois(context.Background(), env.authz, recon.WhoisRequest{Target: target})
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
	renderWhois(result)
	return nil
}

func executeDNS(target string) error {
	env, err := newToolEnvironment()
	if err != nil {
		return err
	}

	result, err := env.engine.DNSLookup(context.Background(), env.authz, recon.DNSRequest{
		Target:     target,
		RecordType: dnsRecordType,
	})
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
	renderDNS(result)
	return nil
}

func executeReverseDNS(ip string) error {
	env, err := newToolEnvironment()
	if err != nil {
		return err
	}

	result, err := env.engine.ReverseDNS(context.Background(), env.authz, recon.ReverseDNSRequest{IP: ip})
	if err != nil {
		return err
	}

	if outputJSON {
		return printJSON(result)
	}
	renderReverseDNS(result)
	return nil
}

func init() {
	rootCmd.AddCommand(whoisCmd)
	rootCmd.AddCommand(dnsCmd)
	rootCmd.AddCommand(rdnsCmd)

	dnsCmd.Flags().StringVarP(&dnsRecordType, "type", "t", "A", "Record type to query")

	addOutputFlags(whoisCmd)
	addRawFlag(whoisCmd)
	addOutputFlags(dnsCmd)
	addRawFlag(dnsCmd)
	addOutputFlags(rdnsCmd)
}
