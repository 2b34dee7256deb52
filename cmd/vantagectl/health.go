// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package main

import (
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/vantage/internal/api"
)

func newHealthCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe the server's readiness endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, callErr := global.client().call(cmd.Context(), http.MethodGet, "/api/v1/health/ready", nil)

			var apiErr *apiError
			if callErr != nil && !errors.As(callErr, &apiErr) {
				return callErr
			}

			var status api.HealthStatus
			if len(data) > 0 {
				if err := json.Unmarshal(data, &status); err != nil {
					return fmt.Errorf("decode health: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			state := color.GreenString(status.Status)
			if callErr != nil {
				state = color.RedString("not ready")
			}
			fmt.Fprintf(out, "%s %s %s\n", label("Server"), state, faint("version "+status.Version))

			names := make([]string, 0, len(status.Checks))
			for name := range status.Checks {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				result := status.Checks[name]
				if result == "ok" {
					fmt.Fprintf(out, "  %s %s\n", color.GreenString("✓"), name)
				} else {
					fmt.Fprintf(out, "  %s %s: %s\n", color.RedString("✗"), name, result)
				}
			}
			return callErr
		},
	}
}
