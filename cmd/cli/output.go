// Package cli implements the reconkit command-line interface.
// This file renders probe results as tables and colored terminal output.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/reconkit/reconkit/internal/recon"
)

// Output format flags shared by the tool commands. Only one command runs
// per invocation so the vars can back every registration.
var (
	outputJSON bool
	outputRaw  bool
)

// Color helpers for human-readable output.
var (
	okColor   = color.New(color.FgGreen).SprintFunc()
	warnColor = color.New(color.FgYellow).SprintFunc()
	offColor  = color.New(color.FgRed).SprintFunc()
	dimColor  = color.New(color.FgCyan).SprintFunc()
)

// addOutputFlags registers the structured output flag on a tool command.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Emit the structured result as JSON")
}

// addRawFlag registers the raw passthrough flag on commands whose result
// carries the underlying tool output.
func addRawFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&outputRaw, "raw", false, "Print the raw tool output instead of a summary")
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// printRaw prints raw tool output without the trailing newline run.
func printRaw(raw string) {
	if trimmed := strings.TrimRight(raw, "\n"); trimmed != "" {
		fmt.Println(trimmed)
	}
}

func renderWhois(res *recon.WhoisResult) {
	fmt.Printf("Whois for %s\n", res.Target)
	if res.Summary == nil {
		// Nothing parseable in the registry response, show it as-is.
		printRaw(res.Raw)
		return
	}

	s := res.Summary
	if s.Registrar != "" {
		fmt.Printf("Registrar: %s\n", s.Registrar)
	}
	if s.CreatedDate != "" {
		fmt.Printf("Created: %s\n", s.CreatedDate)
	}
	if s.UpdatedDate != "" {
		fmt.Printf("Updated: %s\n", s.UpdatedDate)
	}
	if s.ExpirationDate != "" {
		fmt.Printf("Expires: %s\n", s.ExpirationDate)
	}
	if len(s.NameServers) > 0 {
		fmt.Printf("Name servers: %s\n", strings.Join(s.NameServers, ", "))
	}
	if len(s.Statuses) > 0 {
		fmt.Printf("Status: %s\n", strings.Join(s.Statuses, ", "))
	}
}

func renderDNS(res *recon.DNSResult) {
	if len(res.Records) == 0 {
		fmt.Printf("No %s records found for %s\n", res.RecordType, res.Target)
		return
	}

	fmt.Printf("%s records for %s\n", res.RecordType, res.Target)
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Type", "Value")
	for _, rec := range res.Records {
		_ = table.Append([]string{rec.Name, rec.Type, rec.Value})
	}
	_ = table.Render()
}

func renderReverseDNS(res *recon.ReverseDNSResult) {
	if res.Zone != "" {
		fmt.Printf("Reverse DNS for %s (%s)\n", res.IP, dimColor(res.Zone))
	} else {
		fmt.Printf("Reverse DNS for %s\n", res.IP)
	}

	if len(res.Hostnames) == 0 {
		fmt.Println("No PTR records found")
		return
	}
	for _, name := range res.Hostnames {
		fmt.Printf("  %s\n", okColor(name))
	}
}

func renderPing(res *recon.PingResult) {
	status := offColor("unreachable")
	if res.Alive {
		status = okColor("alive")
	}
	fmt.Printf("%s is %s\n", res.Target, status)
}

func renderPortScan(res *recon.PortScanResult) {
	fmt.Printf("Scan of %s (ports %s)\n", res.Target, res.PortsScanned)
	if res.Fallback {
		fmt.Println(warnColor("nmap not available, results from connect probes"))
	}

	if len(res.OpenPorts) == 0 {
		fmt.Println("No open ports found")
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Port", "State", "Service")
	for _, p := range res.OpenPorts {
		state := p.State
		if state == "open" {
			state = okColor(state)
		}
		_ = table.Append([]string{strconv.Itoa(p.Port), state, p.Service})
	}
	_ = table.Render()
}

func renderHeaders(res *recon.HeadersResult) {
	fmt.Printf("%s responded %s\n", res.URL, statusColor(res.StatusCode))
	if len(res.Headers) == 0 {
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Header", "Value")
	for _, name := range sortedHeaderNames(res.Headers) {
		_ = table.Append([]string{name, res.Headers[name]})
	}
	_ = table.Render()
}

func renderTech(res *recon.TechDetectResult) {
	fmt.Printf("%s responded %s\n", res.URL, statusColor(res.StatusCode))
	if len(res.Technologies) == 0 {
		fmt.Println("No known fingerprints matched")
		return
	}
	fmt.Printf("Technologies: %s\n", okColor(strings.Join(res.Technologies, ", ")))
}

func renderSubdomains(res *recon.SubdomainResult) {
	if len(res.Subdomains) == 0 {
		fmt.Printf("No subdomains resolved for %s\n", res.Domain)
		return
	}

	fmt.Printf("Resolved %d subdomains of %s\n", len(res.Subdomains), res.Domain)
	for _, sub := range res.Subdomains {
		fmt.Printf("  %s\n", okColor(sub))
	}
}

func renderSocial(res *recon.SocialResult) {
	fmt.Printf("Profiles for %s\n", res.Username)
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Platform", "URL", "Status")
	for i := range res.Profiles {
		p := &res.Profiles[i]
		status := offColor("not found")
		if p.Found {
			status = okColor("found")
		}
		_ = table.Append([]string{p.Platform, p.URL, status})
	}
	_ = table.Render()
}

func renderEmails(res *recon.EmailResult) {
	if len(res.Emails) == 0 {
		fmt.Printf("No addresses found for %s\n", res.Domain)
	} else {
		fmt.Printf("Found %d addresses for %s\n", len(res.Emails), res.Domain)
		for _, email := range res.Emails {
			fmt.Printf("  %s\n", okColor(email))
		}
	}
	if len(res.MXRecords) > 0 {
		fmt.Printf("MX: %s\n", dimColor(strings.Join(res.MXRecords, ", ")))
	}
}

func renderWayback(res *recon.WaybackResult) {
	if res.Total == 0 {
		fmt.Printf("No archived URLs found for %s\n", res.Domain)
		return
	}

	fmt.Printf("%d archived URLs for %s\n", res.Total, res.Domain)
	for _, u := range res.URLs {
		fmt.Println(u)
	}
}

func renderSubnet(res *recon.SubnetResult) {
	fmt.Printf("Subnet %s\n", res.CIDR)
	fmt.Printf("Network: %s\n", res.NetworkAddress)
	fmt.Printf("Broadcast: %s\n", res.BroadcastAddress)
	fmt.Printf("Netmask: %s\n", res.Netmask)
	fmt.Printf("Hosts: %d\n", res.HostCount)
	if res.FirstHost != "" {
		fmt.Printf("Host range: %s to %s\n", res.FirstHost, res.LastHost)
	}
	space := "public"
	if res.IsPrivate {
		space = "private"
	}
	fmt.Printf("Address space: %s\n", space)
}

// statusColor renders an HTTP status code with a severity color.
func statusColor(code int) string {
	text := strconv.Itoa(code)
	switch {
	case code >= 200 && code < 300:
		return okColor(text)
	case code >= 300 && code < 400:
		return dimColor(text)
	case code >= 400:
		return offColor(text)
	default:
		return text
	}
}

// sortedHeaderNames returns header names in a stable order for display.
func sortedHeaderNames(h recon.Headers) []string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
