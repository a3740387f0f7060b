// Command ls-visplot plots when astronomical targets are observable from a
// ground site: sun, moon, and target tracks over a night, with twilight and
// moonlight windows shaded.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/litescript/ls-visplot/internal/chart"
	"github.com/litescript/ls-visplot/internal/eop"
	"github.com/litescript/ls-visplot/internal/ephem"
	"github.com/litescript/ls-visplot/internal/logging"
	"github.com/litescript/ls-visplot/internal/site"
	"github.com/litescript/ls-visplot/internal/target"
	"github.com/litescript/ls-visplot/internal/ui"
	"github.com/litescript/ls-visplot/internal/version"
)

var (
	dateStr     string
	rangeHours  int
	siteName    string
	centerHour  int
	outputPath  string
	jsonPath    string
	sitesPath   string
	verbose     bool
	quiet       bool
	xkcd        bool
	showVersion bool
)

func init() {
	flag.StringVar(&dateStr, "d", "", "Observation date, YYYY-MM-DD UTC (default today)")
	flag.StringVar(&dateStr, "date", "", "Observation date, YYYY-MM-DD UTC (default today)")
	flag.IntVar(&rangeHours, "r", 10, "Hours plotted either side of the center")
	flag.IntVar(&rangeHours, "range", 10, "Hours plotted either side of the center")
	flag.StringVar(&siteName, "s", "HESS", "Observing site name")
	flag.StringVar(&siteName, "site", "HESS", "Observing site name")
	flag.IntVar(&centerHour, "c", -1, "Center hour UTC, 0-23 (default local midnight of the site)")
	flag.IntVar(&centerHour, "center", -1, "Center hour UTC, 0-23 (default local midnight of the site)")
	flag.StringVar(&outputPath, "o", "", "Write the chart to this file (format from extension)")
	flag.StringVar(&outputPath, "output", "", "Write the chart to this file (format from extension)")
	flag.StringVar(&jsonPath, "j", "", "Export computed tracks and windows as JSON (- for stdout)")
	flag.StringVar(&jsonPath, "json", "", "Export computed tracks and windows as JSON (- for stdout)")
	flag.StringVar(&sitesPath, "sites", "", "YAML file with additional observing sites")
	flag.BoolVar(&verbose, "v", false, "Verbose (debug) logging")
	flag.BoolVar(&verbose, "verbose", false, "Verbose (debug) logging")
	flag.BoolVar(&quiet, "q", false, "Only log errors")
	flag.BoolVar(&quiet, "quiet", false, "Only log errors")
	flag.BoolVar(&xkcd, "x", false, "Sketchy chart style")
	flag.BoolVar(&xkcd, "xkcd", false, "Sketchy chart style")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [flags] TARGET...\n\nTargets are source names (resolved online), rd/RA,DEC[/LABEL]\ncoordinates, or lb/L,B[/LABEL] galactic coordinates.\n\nFlags:\n",
			os.Args[0])
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("ls-visplot v%s\n", version.Version)
		return
	}

	logger := logging.FromFlags(verbose, quiet)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := run(ctx, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// inputs is the validated flag state. Building it touches neither the
// network nor the ephemeris code, so a bad flag always fails before either.
type inputs struct {
	site site.Site
	date time.Time
	hour int // plot center, UTC
}

// validateInputs checks the flag values and resolves the observing site.
func validateInputs(dateStr string, rangeHours, centerHour int, siteName, sitesPath string) (inputs, error) {
	date, err := parseDate(dateStr)
	if err != nil {
		return inputs{}, err
	}
	if rangeHours < 1 {
		return inputs{}, fmt.Errorf("range must be at least 1 hour, got %d", rangeHours)
	}
	if centerHour < -1 || centerHour > 23 {
		return inputs{}, fmt.Errorf("center hour must be 0-23, got %d", centerHour)
	}

	catalog := site.Default()
	if sitesPath != "" {
		catalog, err = site.Load(sitesPath)
		if err != nil {
			return inputs{}, err
		}
	}
	st, err := catalog.Lookup(siteName)
	if err != nil {
		return inputs{}, err
	}

	hour := centerHour
	if hour < 0 {
		hour = st.MidnightHour()
	}
	return inputs{site: st, date: date, hour: hour}, nil
}

func run(ctx context.Context, logger *logging.Logger) error {
	in, err := validateInputs(dateStr, rangeHours, centerHour, siteName, sitesPath)
	if err != nil {
		return err
	}
	st, date, hour := in.site, in.date, in.hour
	logger.Debug("Site %s (%.4f, %.4f), center %02d:00 UTC", st.Name, st.Latitude, st.Longitude, hour)

	resolver := target.NewResolver()
	targets, err := resolver.ResolveAll(ctx, flag.Args())
	if err != nil {
		return err
	}
	for _, t := range targets {
		fmt.Printf("%s : %s\n", t.Label, t.CoordString())
	}

	table, err := eop.NewSource().Load(ctx)
	if err != nil {
		logger.Warn("Delta-T table unavailable, using polynomial estimate: %v", err)
		table = eop.Fallback()
	}

	center := ephem.CenterTime(date, hour)
	ser, err := ephem.NewSeries(center, rangeHours)
	if err != nil {
		return err
	}

	ev := ephem.NewEvaluator(st, table.DeltaT)
	sun := ev.Sun(ser)
	moon := ev.Moon(ser)
	bands := ephem.Classify(sun.Alt, moon.Alt)

	tracks := make([]chart.TargetTrack, len(targets))
	for i, t := range targets {
		tracks[i] = chart.TargetTrack{Label: t.Label, Track: ev.Target(ser, t.RA, t.Dec)}
	}

	dateLabel := date.Format("2006-01-02")

	if jsonPath != "" {
		if err := writeJSON(st.Name, dateLabel, ser, sun, moon, bands, tracks); err != nil {
			return err
		}
	}

	if outputPath != "" {
		fig, err := chart.New(chart.Config{Site: st.Name, Date: dateLabel, XKCD: xkcd}, ser, bands, tracks)
		if err != nil {
			return err
		}
		if err := fig.WriteFile(outputPath); err != nil {
			return err
		}
		logger.Info("Wrote %s", outputPath)
		return nil
	}

	if jsonPath == "-" {
		// JSON went to stdout, nothing further to display.
		return nil
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		return ui.Run(ui.ChartData{
			Site:    st.Name,
			Date:    dateLabel,
			Series:  ser,
			Bands:   bands,
			Targets: tracks,
		})
	}

	chart.WriteSummary(os.Stdout, st.Name, dateLabel, ser, bands, tracks)
	return nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD, got %q", s)
	}
	return d, nil
}

func writeJSON(siteLabel, dateLabel string, ser ephem.Series, sun, moon ephem.Track, bands ephem.Bands, tracks []chart.TargetTrack) error {
	export := chart.NewExport(siteLabel, dateLabel, ser, sun, moon, bands, tracks)
	if jsonPath == "-" {
		return export.WriteJSON(os.Stdout)
	}
	f, err := os.Create(jsonPath)
	if err != nil {
		return fmt.Errorf("create JSON file: %w", err)
	}
	if err := export.WriteJSON(f); err != nil {
		f.Close()
		return fmt.Errorf("write JSON to %s: %w", jsonPath, err)
	}
	return f.Close()
}
