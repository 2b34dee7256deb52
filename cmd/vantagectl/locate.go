// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/vantage/internal/models"
)

type locateOptions struct {
	precise   bool
	asJSON    bool
	sessionID string
	timezone  string
	language  string
}

func newLocateCmd(global *globalOptions) *cobra.Command {
	opts := &locateOptions{}

	cmd := &cobra.Command{
		Use:     "locate [ip]",
		Aliases: []string{"l"},
		Short:   "Estimate the location of this machine or of an IP address",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ip string
			if len(args) == 1 {
				ip = args[0]
				if net.ParseIP(ip) == nil {
					return fmt.Errorf("%q is not an IP address", ip)
				}
			}
			if opts.precise && ip == "" {
				return errors.New("--precise needs an IP address")
			}

			client := global.client()
			out := cmd.OutOrStdout()

			if opts.precise {
				data, err := client.call(cmd.Context(), http.MethodGet, "/api/v1/locate/"+url.PathEscape(ip), nil)
				if err != nil {
					return err
				}
				if opts.asJSON {
					return printJSON(out, data)
				}
				var scored models.ScoredRecord
				if err := json.Unmarshal(data, &scored); err != nil {
					return fmt.Errorf("decode record: %w", err)
				}
				printScoredRecord(out, ip, &scored)
				return nil
			}

			path := "/api/v1/locate"
			if ip != "" {
				path += "?ip=" + url.QueryEscape(ip)
			}
			data, err := client.call(cmd.Context(), http.MethodPost, path, opts.body())
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(out, data)
			}
			var result models.EstimationResult
			if err := json.Unmarshal(data, &result); err != nil {
				return fmt.Errorf("decode result: %w", err)
			}
			printResult(out, &result)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.precise, "precise", "p", false, "precise provider lookup only")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the raw JSON payload")
	cmd.Flags().StringVar(&opts.sessionID, "session", "", "tracking session ID")
	cmd.Flags().StringVar(&opts.timezone, "timezone", "", "declared IANA timezone, e.g. Europe/Berlin")
	cmd.Flags().StringVar(&opts.language, "language", "", "declared language tag, e.g. de-DE")
	return cmd
}

// locateBody is the POST /api/v1/locate request the CLI sends.
type locateBody struct {
	SessionID string                 `json:"session_id,omitempty"`
	Metadata  *models.ClientMetadata `json:"metadata,omitempty"`
}

func (o *locateOptions) body() *locateBody {
	b := &locateBody{SessionID: o.sessionID}
	if o.timezone != "" || o.language != "" {
		b.Metadata = &models.ClientMetadata{Timezone: o.timezone, Language: o.language}
	}
	return b
}
