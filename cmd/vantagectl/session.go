// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/vantage/internal/api"
	"github.com/tomtom215/vantage/internal/models"
)

func newSessionCmd(global *globalOptions) *cobra.Command {
	var (
		history int
		asJSON  bool
		forget  bool
	)

	cmd := &cobra.Command{
		Use:   "session <id>",
		Short: "Show the last stored estimate of a tracking session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			base := "/api/v1/sessions/" + url.PathEscape(id)
			client := global.client()
			out := cmd.OutOrStdout()

			switch {
			case forget:
				if _, err := client.call(cmd.Context(), http.MethodDelete, base, nil); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s session %s\n", color.YellowString("Deleted"), color.GreenString(id))
				return nil

			case history > 0:
				data, err := client.call(cmd.Context(), http.MethodGet, base+"/history?limit="+strconv.Itoa(history), nil)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(out, data)
				}
				var h api.SessionHistory
				if err := json.Unmarshal(data, &h); err != nil {
					return fmt.Errorf("decode history: %w", err)
				}
				fmt.Fprintf(out, "%s %s\n", color.GreenString(h.SessionID), faint(fmt.Sprintf("(%d results)", h.Count)))
				for i := range h.Results {
					printHistoryLine(out, &h.Results[i])
				}
				return nil
			}

			data, err := client.call(cmd.Context(), http.MethodGet, base, nil)
			if err != nil {
				return err
			}
			if asJSON {
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

	cmd.Flags().IntVar(&history, "history", 0, "list the last N stored estimates instead")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw JSON payload")
	cmd.Flags().BoolVar(&forget, "delete", false, "forget the session")
	cmd.MarkFlagsMutuallyExclusive("history", "delete")
	return cmd
}
