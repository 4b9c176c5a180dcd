// Package cli implements the reconkit command-line interface.
// This file provides shared helpers for loading configuration and building
// the probe engine and authorization capability used by the tool commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/reconkit/reconkit/internal/auth"
	"github.com/reconkit/reconkit/internal/config"
	"github.com/reconkit/reconkit/internal/errors"
	"github.com/reconkit/reconkit/internal/logging"
	"github.com/reconkit/reconkit/internal/recon"
)

// getConfigFilePath returns the config file viper resolved, or the default
// lookup path when none was found.
func getConfigFilePath() string {
	if path := viper.ConfigFileUsed(); path != "" {
		return path
	}
	return "config.yaml"
}

// toolEnvironment bundles everything a tool command needs to run a probe.
type toolEnvironment struct {
	cfg    *config.Config
	engine *recon.Engine
	authz  auth.Authorization
}

// newToolEnvironment loads configuration and constructs the engine plus the
// authorization capability for this invocation.
func newToolEnvironment() (*toolEnvironment, error) {
	cfg, err := config.Load(getConfigFilePath())
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	return &toolEnvironment{
		cfg:    cfg,
		engine: recon.NewEngine(cfg.Tools, nil, logging.Default()),
		authz:  currentAuthorization(cfg),
	}, nil
}

// currentAuthorization resolves the operator confirmation from the
// --authorized flag, the RECONKIT_AUTHORIZED environment variable, or the
// auth section of the config file. Unconfirmed invocations get the zero
// capability and every probe is refused.
func currentAuthorization(cfg *config.Config) auth.Authorization {
	operator := viper.GetString("operator")
	if operator == "" {
		operator = cfg.Auth.Operator
	}

	if viper.GetBool("authorized") || cfg.Auth.Authorized {
		return auth.Grant(operator)
	}
	return auth.Authorization{}
}

// exitToolError prints err to stderr and terminates. Refused probes also
// get the authorization remediation hint.
func exitToolError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.IsCode(err, errors.CodeUnauthorized) {
		fmt.Fprintln(os.Stderr, "Probes only run against targets you are authorized to test.")
		fmt.Fprintln(os.Stderr, "Confirm with --authorized, or set auth.authorized: true in config.yaml.")
	}
	os.Exit(1)
}
