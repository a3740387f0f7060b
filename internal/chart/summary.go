package chart

import (
	"fmt"
	"io"
	"strings"

	"github.com/litescript/ls-visplot/internal/ephem"
)

// WriteSummary writes a plain-text visibility summary to the given writer.
// Used when neither a file output nor an interactive terminal is available.
func WriteSummary(w io.Writer, site, date string, ser ephem.Series, bands ephem.Bands, targets []TargetTrack) {
	fmt.Fprintf(w, "Visibility from %s, %s\n", site, date)
	fmt.Fprintln(w, strings.Repeat("─", 72))

	writeWindows(w, "Astronomical darkness", intervals(ser, bands.Astronomical))
	writeWindows(w, "Moon above horizon (dark time)", intervals(ser, bands.MoonUp))
	fmt.Fprintln(w, strings.Repeat("─", 72))

	if len(targets) == 0 {
		fmt.Fprintln(w, "No targets")
		return
	}

	fmt.Fprintf(w, "%-24s %9s %8s %14s\n", "Target", "Max alt", "At (UTC)", "Max dark alt")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	for _, tt := range targets {
		maxAlt, maxIdx := peak(tt.Track.Alt, nil)
		darkAlt, _ := peak(tt.Track.Alt, bands.Astronomical)
		at := "-"
		if maxIdx >= 0 {
			at = ser.Times[maxIdx].Format("15:04")
		}
		dark := "never up"
		if darkAlt > 0 {
			dark = fmt.Sprintf("%6.1f°", darkAlt)
		}
		fmt.Fprintf(w, "%-24s %8.1f° %8s %14s\n", truncate(tt.Label, 24), maxAlt, at, dark)
	}
}

func writeWindows(w io.Writer, name string, ivs []Interval) {
	if len(ivs) == 0 {
		fmt.Fprintf(w, "%s: none\n", name)
		return
	}
	parts := make([]string, len(ivs))
	for i, iv := range ivs {
		parts[i] = fmt.Sprintf("%s-%s", iv.Start.Format("15:04"), iv.End.Format("15:04"))
	}
	fmt.Fprintf(w, "%s: %s\n", name, strings.Join(parts, ", "))
}

// peak returns the maximum value and its index, restricted to samples where
// mask is true when mask is non-nil. Index is -1 when nothing qualifies.
func peak(vals []float64, mask []bool) (float64, int) {
	best, idx := 0.0, -1
	for i, v := range vals {
		if mask != nil && (i >= len(mask) || !mask[i]) {
			continue
		}
		if idx < 0 || v > best {
			best, idx = v, i
		}
	}
	if idx < 0 {
		return 0, -1
	}
	return best, idx
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
