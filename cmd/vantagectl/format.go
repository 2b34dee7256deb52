// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package main

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/goccy/go-json"

	"github.com/tomtom215/vantage/internal/models"
)

func label(s string) string {
	return color.New(color.Bold).Sprintf("%-12s", s+":")
}

func faint(s string) string {
	return color.New(color.Faint).Sprint(s)
}

func printJSON(out io.Writer, data json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("format JSON: %w", err)
	}
	buf.WriteByte('\n')
	_, err := out.Write(buf.Bytes())
	return err
}

func formatMeters(m float64) string {
	if m >= 1000 {
		return fmt.Sprintf("%.2f km", m/1000)
	}
	return fmt.Sprintf("%.0f m", m)
}

func formatCoordinates(lat, lon *float64) string {
	if lat == nil || lon == nil {
		return faint("(no coordinates)")
	}
	return color.CyanString("(%.4f, %.4f)", *lat, *lon)
}

func describe(r *models.LocationRecord) string {
	if d := r.Describe(); d != "" {
		return d
	}
	return faint("unknown")
}

// confidenceColor renders a 0-100 value green, yellow or red.
func confidenceColor(v int) string {
	switch {
	case v >= 60:
		return color.GreenString("%d%%", v)
	case v >= 30:
		return color.YellowString("%d%%", v)
	default:
		return color.RedString("%d%%", v)
	}
}

func printScoredRecord(out io.Writer, ip string, s *models.ScoredRecord) {
	r := &s.Record
	fmt.Fprintf(out, "%s %s\n", label("IP"), ip)
	fmt.Fprintf(out, "%s %s %s\n", label("Location"), describe(r), formatCoordinates(r.Latitude, r.Longitude))
	fmt.Fprintf(out, "%s %s %s\n", label("Source"), r.Source, faint(fmt.Sprintf("score %d", s.Score)))
	if r.HasTimezone() {
		fmt.Fprintf(out, "%s %s\n", label("Timezone"), *r.Timezone)
	}
	if network := r.NetworkName(); network != "" {
		fmt.Fprintf(out, "%s %s\n", label("Network"), network)
	}
}

func printResult(out io.Writer, res *models.EstimationResult) {
	printScoredRecord(out, res.IP, &res.Precise)

	st := &res.Stealth
	stealth := formatCoordinates(st.Latitude, st.Longitude)
	if !st.HasCoordinates() && st.Region != "" {
		stealth = st.Region
	}
	fmt.Fprintf(out, "%s %s %s %s\n", label("Stealth"), stealth, confidenceColor(st.Confidence), faint(st.Accuracy))

	for _, sig := range res.Signals {
		fmt.Fprintf(out, "  %-24s %s %s\n", sig.Algorithm, confidenceColor(sig.Confidence), faint(string(sig.AccuracyBand)))
	}

	if res.Device != nil {
		fmt.Fprintf(out, "%s %s / %s / %s\n", label("Device"), res.Device.DeviceType, res.Device.Browser, res.Device.OS)
	}
	if res.Fingerprint != nil {
		fmt.Fprintf(out, "%s %s %s\n", label("Fingerprint"), res.Fingerprint.Hash, faint(fmt.Sprintf("confidence %d%%", res.Fingerprint.ConfidencePct)))
	}
	if m := res.Movement; m != nil {
		fmt.Fprintf(out, "%s %s %s at %.1f km/h, bearing %.0f°\n",
			label("Movement"), color.CyanString(string(m.MovementType)), formatMeters(m.DistanceMeters), m.SpeedKmh, m.BearingDegrees)
	}
	if res.SessionID != "" {
		fmt.Fprintf(out, "%s %s\n", label("Session"), color.GreenString(res.SessionID))
	}
}

func printHistoryLine(out io.Writer, res *models.EstimationResult) {
	ts := time.UnixMilli(res.TimestampMs).UTC().Format(time.RFC3339)
	coord, ok := res.Coordinate()
	where := faint("(no coordinates)")
	if ok {
		where = color.CyanString("(%.4f, %.4f)", coord.Latitude, coord.Longitude)
	}
	fmt.Fprintf(out, "  %s %s %s\n", faint(ts), where, describe(&res.Precise.Record))
}
