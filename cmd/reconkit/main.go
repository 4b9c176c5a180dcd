// Command reconkit is the entry point for the reconkit reconnaissance
// toolkit. It wires build information into the CLI and dispatches to the
// Cobra command tree in cmd/cli.
package main

import (
	"github.com/reconkit/reconkit/cmd/cli"
)

// Build information - these will be set by ldflags during build.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	cli.SetVersion(version, commit, buildTime)
	cli.Execute()
}
