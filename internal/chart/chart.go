// Package chart renders the two-panel visibility figure and its text and
// JSON forms.
package chart

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/litescript/ls-visplot/internal/ephem"
)

// AzimuthWrapLimit marks the 360->0 azimuth discontinuity: samples above it
// become gap markers so no line segment bridges the wrap.
const AzimuthWrapLimit = 359.0

// TargetTrack pairs a display label with its computed track.
type TargetTrack struct {
	Label string
	Track ephem.Track
}

// Config controls figure appearance.
type Config struct {
	Site   string
	Date   string
	XKCD   bool // sketchy mode: no grid
	Width  vg.Length
	Height vg.Length
}

// Figure is a rendered two-panel (altitude, azimuth) visibility chart.
type Figure struct {
	alt    *plot.Plot
	az     *plot.Plot
	width  vg.Length
	height vg.Length
}

// Band fill shades, light to dark with the sun's depth, moon in blue.
var (
	civilShade        = color.NRGBA{R: 0xE8, G: 0xE8, B: 0xE8, A: 0xFF}
	nauticalShade     = color.NRGBA{R: 0xC9, G: 0xC9, B: 0xC9, A: 0xFF}
	astronomicalShade = color.NRGBA{R: 0xA8, G: 0xA8, B: 0xA8, A: 0xFF}
	moonShade         = color.NRGBA{R: 0x64, G: 0x95, B: 0xC8, A: 0x78}
	outlineStroke     = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// New builds the figure: altitude and azimuth panels over the same time
// axis, twilight and moon bands shaded, one outlined line per target.
func New(cfg Config, ser ephem.Series, bands ephem.Bands, targets []TargetTrack) (*Figure, error) {
	if cfg.Width == 0 {
		cfg.Width = 10 * vg.Inch
	}
	if cfg.Height == 0 {
		cfg.Height = 8 * vg.Inch
	}

	altP := plot.New()
	azP := plot.New()

	title := fmt.Sprintf("Visibility from %s, %s", cfg.Site, cfg.Date)
	altP.Title.Text = title
	altP.Y.Label.Text = "Altitude (deg)"
	azP.Y.Label.Text = "Azimuth (deg)"
	azP.X.Label.Text = "Time (UTC)"

	xMin := float64(ser.Times[0].Unix())
	xMax := float64(ser.Times[len(ser.Times)-1].Unix())
	for _, p := range []*plot.Plot{altP, azP} {
		p.X.Tick.Marker = plot.TimeTicks{Format: "15:04"}
		p.X.Min, p.X.Max = xMin, xMax
	}
	altP.Y.Min, altP.Y.Max = -90, 90
	azP.Y.Min, azP.Y.Max = 0, 360

	if err := addBands(altP, ser, bands, -90, 90); err != nil {
		return nil, err
	}
	if err := addBands(azP, ser, bands, 0, 360); err != nil {
		return nil, err
	}

	if !cfg.XKCD {
		altP.Add(plotter.NewGrid())
		azP.Add(plotter.NewGrid())
	}

	// Horizon reference line on the altitude panel.
	horizon, err := plotter.NewLine(plotter.XYs{{X: xMin, Y: 0}, {X: xMax, Y: 0}})
	if err != nil {
		return nil, err
	}
	horizon.Color = color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xFF}
	altP.Add(horizon)

	for i, tt := range targets {
		c := plotutil.Color(i)

		altXYs := xys(ser.Times, tt.Track.Alt)
		if err := addOutlinedLine(altP, altXYs, c); err != nil {
			return nil, err
		}
		// Legend entry uses a plain sample of the core line.
		legendLine, err := plotter.NewLine(plotter.XYs{})
		if err != nil {
			return nil, err
		}
		legendLine.Color = c
		legendLine.Width = vg.Points(1.5)
		altP.Legend.Add(tt.Label, legendLine)

		for _, seg := range segments(ser.Times, GapAzimuth(tt.Track.Az)) {
			if err := addOutlinedLine(azP, seg, c); err != nil {
				return nil, err
			}
		}
	}
	altP.Legend.Top = true

	return &Figure{alt: altP, az: azP, width: cfg.Width, height: cfg.Height}, nil
}

// WriteFile writes the figure to path, format chosen by extension
// (png, svg, pdf, eps, tif, jpg).
func (f *Figure) WriteFile(path string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		return fmt.Errorf("output path %q has no extension to infer a format from", path)
	}
	if format == "jpeg" {
		format = "jpg"
	}
	if format == "tiff" {
		format = "tif"
	}

	c, err := draw.NewFormattedCanvas(f.width, f.height, format)
	if err != nil {
		return fmt.Errorf("format %q: %w", format, err)
	}
	f.drawTo(draw.New(c))

	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write figure: %w", err)
	}
	if _, err := c.WriteTo(w); err != nil {
		w.Close()
		return fmt.Errorf("write figure to %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("write figure to %s: %w", path, err)
	}
	return nil
}

func (f *Figure) drawTo(dc draw.Canvas) {
	tiles := draw.Tiles{
		Rows: 2, Cols: 1,
		PadY:   vg.Millimeter * 2,
		PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2,
		PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2,
	}
	canvases := plot.Align([][]*plot.Plot{{f.alt}, {f.az}}, tiles, dc)
	f.alt.Draw(canvases[0][0])
	f.az.Draw(canvases[1][0])
}

// GapAzimuth returns a copy of az with every sample above AzimuthWrapLimit
// replaced by a NaN gap marker.
func GapAzimuth(az []float64) []float64 {
	out := make([]float64, len(az))
	for i, v := range az {
		if v > AzimuthWrapLimit {
			out[i] = math.NaN()
		} else {
			out[i] = v
		}
	}
	return out
}

// segments splits a value slice into contiguous gap-free runs, so a line per
// run never crosses a gap marker.
func segments(times []time.Time, vals []float64) []plotter.XYs {
	var segs []plotter.XYs
	var cur plotter.XYs
	for i, v := range vals {
		if math.IsNaN(v) {
			if len(cur) > 0 {
				segs = append(segs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: float64(times[i].Unix()), Y: v})
	}
	if len(cur) > 0 {
		segs = append(segs, cur)
	}
	return segs
}

func xys(times []time.Time, vals []float64) plotter.XYs {
	pts := make(plotter.XYs, len(vals))
	for i, v := range vals {
		pts[i] = plotter.XY{X: float64(times[i].Unix()), Y: v}
	}
	return pts
}

// addOutlinedLine draws a thick light stroke under a colored core line so
// targets stay legible over the dark shading.
func addOutlinedLine(p *plot.Plot, pts plotter.XYs, c color.Color) error {
	if len(pts) == 0 {
		return nil
	}
	outline, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	outline.Color = outlineStroke
	outline.Width = vg.Points(3)

	core, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	core.Color = c
	core.Width = vg.Points(1.5)

	p.Add(outline, core)
	return nil
}

// addBands shades the twilight and moon bands as full-height rectangles.
func addBands(p *plot.Plot, ser ephem.Series, bands ephem.Bands, yMin, yMax float64) error {
	layers := []struct {
		on    []bool
		shade color.Color
	}{
		{bands.Civil, civilShade},
		{bands.Nautical, nauticalShade},
		{bands.Astronomical, astronomicalShade},
		{bands.MoonUp, moonShade},
	}
	for _, layer := range layers {
		for _, r := range runs(layer.on) {
			x0, x1 := bandSpan(ser, r)
			poly, err := plotter.NewPolygon(plotter.XYs{
				{X: x0, Y: yMin},
				{X: x1, Y: yMin},
				{X: x1, Y: yMax},
				{X: x0, Y: yMax},
			})
			if err != nil {
				return err
			}
			poly.Color = layer.shade
			poly.LineStyle.Color = color.Transparent
			p.Add(poly)
		}
	}
	return nil
}

// bandSpan is the x extent of a band run, widened by half a sample step on
// each side so each sample covers its interval and a one-sample run does not
// collapse to a zero-width rectangle. The span is clamped to the series.
func bandSpan(ser ephem.Series, r run) (x0, x1 float64) {
	x0 = float64(ser.Times[r.start].Unix())
	x1 = float64(ser.Times[r.end].Unix())
	if len(ser.Times) < 2 {
		return x0, x1
	}
	half := ser.Times[1].Sub(ser.Times[0]).Seconds() / 2
	lo := float64(ser.Times[0].Unix())
	hi := float64(ser.Times[len(ser.Times)-1].Unix())
	return math.Max(x0-half, lo), math.Min(x1+half, hi)
}

// run is a contiguous index range [start, end] where a band is on.
type run struct {
	start, end int
}

func runs(on []bool) []run {
	var out []run
	start := -1
	for i, v := range on {
		switch {
		case v && start < 0:
			start = i
		case !v && start >= 0:
			out = append(out, run{start: start, end: i - 1})
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, run{start: start, end: len(on) - 1})
	}
	return out
}
