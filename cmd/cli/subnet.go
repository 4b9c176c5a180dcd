// Package cli implements the reconkit command-line interface.
// This file implements the offline subnet calculator command.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/reconkit/reconkit/internal/recon"
)

// subnetCmd breaks a CIDR block into its addressing details.
var subnetCmd = &cobra.Command{
	Use:     "subnet <cidr>",
	Aliases: []string{"subnet-calc", "cidr"},
	Short:   "Calculate subnet addressing for a CIDR block",
	Long: `Break a CIDR block into network address, broadcast address, netmask,
usable host range, and host count.

The calculation is entirely offline and still requires the authorization
confirmation, matching every other command.`,
	Example: `  reconkit subnet 192.168.1.0/24 --authorized
  reconkit subnet 10.0.0.0/30 --authorized --json
  reconkit subnet 2001:db8::/64 --authorized`,
	Args: cobra.ExactArgs(1),
	Run:  runSubnetCommand,
}

func runSubnetCommand(cmd *cobra.Command, args []string) {
	if err := executeSubnet(args[0]); err != nil {
		exitToolError(err)
	}
}

func executeSubnet(cidr string) error {
	env, err := newToolEnvironment()
	if err != nil {
		return err
	}

	result, err := env.engine.SubnetCalc(context.Background(), env.authz, recon.SubnetRequest{CIDR: cidr})
	if err != nil {
		return err
	}

	if outputJSON {
		return printJSON(result)
	}
	renderSubnet(result)
	return nil
}

func init() {
	rootCmd.AddCommand(subnetCmd)
	addOutputFlags(subnetCmd)
}
