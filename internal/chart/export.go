package chart

import (
	"encoding/json"
	"io"
	"time"

	"github.com/litescript/ls-visplot/internal/ephem"
)

// Export is the JSON-serializable representation of a computed night.
type Export struct {
	Site        string         `json:"site"`
	Date        string         `json:"date"`
	GeneratedAt time.Time      `json:"generated_at"`
	Times       []time.Time    `json:"times"`
	Sun         BodyExport     `json:"sun"`
	Moon        BodyExport     `json:"moon"`
	Targets     []TargetExport `json:"targets"`
	Windows     WindowExport   `json:"windows"`
}

// BodyExport holds one body's track, parallel to Times.
type BodyExport struct {
	Altitude []float64 `json:"altitude_deg"`
	Azimuth  []float64 `json:"azimuth_deg"`
}

// TargetExport is a labeled track.
type TargetExport struct {
	Label    string    `json:"label"`
	Altitude []float64 `json:"altitude_deg"`
	Azimuth  []float64 `json:"azimuth_deg"`
}

// Interval is a half-open time window rounded to the sample grid.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// WindowExport lists the twilight and moon windows as intervals.
type WindowExport struct {
	Civil        []Interval `json:"civil"`
	Nautical     []Interval `json:"nautical"`
	Astronomical []Interval `json:"astronomical"`
	MoonUp       []Interval `json:"moon_up"`
}

// NewExport converts a computed night to its exportable form.
func NewExport(site, date string, ser ephem.Series, sun, moon ephem.Track, bands ephem.Bands, targets []TargetTrack) *Export {
	exp := &Export{
		Site:        site,
		Date:        date,
		GeneratedAt: time.Now().UTC(),
		Times:       ser.Times,
		Sun:         BodyExport{Altitude: sun.Alt, Azimuth: sun.Az},
		Moon:        BodyExport{Altitude: moon.Alt, Azimuth: moon.Az},
		Windows: WindowExport{
			Civil:        intervals(ser, bands.Civil),
			Nautical:     intervals(ser, bands.Nautical),
			Astronomical: intervals(ser, bands.Astronomical),
			MoonUp:       intervals(ser, bands.MoonUp),
		},
	}
	for _, tt := range targets {
		exp.Targets = append(exp.Targets, TargetExport{
			Label:    tt.Label,
			Altitude: tt.Track.Alt,
			Azimuth:  tt.Track.Az,
		})
	}
	return exp
}

// WriteJSON writes the export as indented JSON to the given writer.
func (e *Export) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

func intervals(ser ephem.Series, on []bool) []Interval {
	var out []Interval
	for _, r := range runs(on) {
		out = append(out, Interval{Start: ser.Times[r.start], End: ser.Times[r.end]})
	}
	return out
}
