// Package cli implements the reconkit command-line interface.
// This file implements the host reachability and port scanning commands.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/reconkit/reconkit/internal/recon"
)

var (
	pingCount           int
	portscanPorts       string
	portscanPortTimeout float64
)

// pingCmd checks whether a host answers ICMP echo requests.
var pingCmd = &cobra.Command{
	Use:   "ping <target>",
	Short: "ICMP reachability check",
	Long: `Check whether a host answers ICMP echo requests.

The count defaults to the configured value and is capped at 10 to keep runs
short.`,
	Example: `  reconkit ping 192.168.1.1 --authorized
  reconkit ping example.com --count 2 --authorized`,
	Args: cobra.ExactArgs(1),
	Run:  runPingCommand,
}

// portscanCmd scans TCP ports on a target.
var portscanCmd = &cobra.Command{
	Use:     "portscan <target>",
	Aliases: []string{"scan", "ports"},
	Short:   "TCP port scan",
	Long: `Scan TCP ports on a target.

Ports accepts nmap-style specs such as "80,443" or "1-1024" and defaults to
the configured range. Scans run through nmap when it is installed and fall
back to plain connect probes otherwise; the fallback is flagged on the
result.`,
	Example: `  reconkit portscan 192.168.1.10 --authorized
  reconkit portscan example.com --ports 22,80,443 --authorized
  reconkit portscan 10.0.0.5 -p 1-100 --timeout-per-port 0.5 --authorized`,
	Args: cobra.ExactArgs(1),
	Run:  runPortScanCommand,
}

func runPingCommand(cmd *cobra.Command, args []string) {
	if err := executePing(args[0]); err != nil {
		exitToolError(err)
	}
}

func runPortScanCommand(cmd *cobra.Command, args []string) {
	if err := executePortScan(args[0]); err != nil {
		exitToolError(err)
	}
}

func executePing(target string) error {
	env, err := newToolEnvironment()
	if err != nil {
		return err
	}

	result, err := env.engine.Ping(context.Background(), env.authz, recon.PingRequest{
		Target: target,
		Count:  pingCount,
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
	renderPing(result)
	return nil
}

func executePortScan(target string) error {
	env, err := newToolEnvironment()
	if err != nil {
		return err
	}

	result, err := env.engine.PortScan(context.Background(), env.authz, recon.PortScanRequest{
		Target:         target,
		Ports:          portscanPorts,
		TimeoutPerPort: portscanPortTimeout,
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
	renderPortScan(result)
	return nil
}

func init() {
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(portscanCmd)

	pingCmd.Flags().IntVarP(&pingCount, "count", "c", 0, "Echo requests to send (0 uses the configured default)")

	portscanCmd.Flags().StringVarP(&portscanPorts, "ports", "p", "",
		"Port spec such as 80,443 or 1-1024 (empty uses the configured default)")
	portscanCmd.Flags().Float64Var(&portscanPortTimeout, "timeout-per-port", 0,
		"Connect timeout per port in seconds for the fallback scanner")

	addOutputFlags(pingCmd)
	addRawFlag(pingCmd)
	addOutputFlags(portscanCmd)
	addRawFlag(portscanCmd)
}
