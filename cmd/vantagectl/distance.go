// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tomtom215/vantage/internal/models"
	"github.com/tomtom215/vantage/internal/movement"
)

func newDistanceCmd() *cobra.Command {
	var seconds float64

	cmd := &cobra.Command{
		Use:   "distance <lat1> <lon1> <lat2> <lon2>",
		Short: "Run the movement analyzer locally on two coordinates",
		Long: `Computes great-circle distance, initial bearing and, with --seconds,
the speed and movement class between two points. No server is contacted.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([]float64, 4)
			for i, arg := range args {
				v, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("argument %d (%q) is not a number", i+1, arg)
				}
				values[i] = v
			}
			if seconds < 0 {
				return errors.New("--seconds must not be negative")
			}

			prev := models.Coordinate{Latitude: values[0], Longitude: values[1]}
			curr := models.Coordinate{Latitude: values[2], Longitude: values[3], TimestampMs: int64(seconds * 1000)}

			res, err := movement.Analyze(prev, curr)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", label("Distance"), formatMeters(res.DistanceMeters))
			fmt.Fprintf(out, "%s %.1f°\n", label("Bearing"), res.BearingDegrees)
			if seconds > 0 {
				fmt.Fprintf(out, "%s %.1f km/h\n", label("Speed"), res.SpeedKmh)
				fmt.Fprintf(out, "%s %s\n", label("Movement"), color.CyanString(string(res.MovementType)))
			}
			fmt.Fprintf(out, "%s %t\n", label("Significant"), res.IsSignificant)
			return nil
		},
	}

	cmd.Flags().Float64Var(&seconds, "seconds", 0, "time between the two points, enables speed classification")
	return cmd
}
