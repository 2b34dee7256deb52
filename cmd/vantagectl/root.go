// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

const (
	serverEnvVar  = "VANTAGE_SERVER"
	defaultServer = "http://localhost:8080"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	server  string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "vantagectl",
		Short: "Operator CLI for the Vantage location estimation server",
		Long: `vantagectl talks to a running Vantage server.

Examples:
  vantagectl locate
  vantagectl locate 203.0.113.7 --precise
  vantagectl session checkout-42 --history 5
  vantagectl distance 52.52 13.40 48.85 2.35 --seconds 3600
  vantagectl health`,
		SilenceUsage: true,
	}

	server := os.Getenv(serverEnvVar)
	if server == "" {
		server = defaultServer
	}
	root.PersistentFlags().StringVarP(&opts.server, "server", "s", server, "server base URL (env "+serverEnvVar+")")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")

	root.AddCommand(
		newLocateCmd(opts),
		newSessionCmd(opts),
		newDistanceCmd(),
		newHealthCmd(opts),
	)
	return root
}

func (o *globalOptions) client() *apiClient {
	return newAPIClient(o.server, o.timeout)
}
