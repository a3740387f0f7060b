// Package target resolves user target specifiers into sky positions.
//
// Three specifier forms are accepted:
//
//	rd/<ra>,<dec>[/tag]   equatorial J2000 coordinates
//	lb/<lon>,<lat>[/tag]  galactic coordinates
//	<name>                proper name, resolved via the CDS Sesame service
package target

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/precess"
	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"
)

// Target is a labeled fixed sky position, equinox J2000.
type Target struct {
	Label string
	RA    unit.RA
	Dec   unit.Angle
}

// CoordString formats the position sexagesimally for display.
func (t Target) CoordString() string {
	return fmt.Sprintf("%v %v", sexa.FmtRA(t.RA), sexa.FmtAngle(t.Dec))
}

// Parse parses an rd/ or lb/ coordinate specifier. ok reports whether spec
// was a coordinate specifier at all; when it is false the caller should treat
// spec as a name and resolve it externally.
func Parse(spec string) (t Target, ok bool, err error) {
	switch {
	case strings.HasPrefix(spec, "rd/"):
		ra, dec, tag, err := splitCoordSpec(spec[len("rd/"):])
		if err != nil {
			return Target{}, true, fmt.Errorf("specifier %q: %w", spec, err)
		}
		raDeg, err := parseRA(ra)
		if err != nil {
			return Target{}, true, fmt.Errorf("specifier %q: %w", spec, err)
		}
		decDeg, err := parseDec(dec)
		if err != nil {
			return Target{}, true, fmt.Errorf("specifier %q: %w", spec, err)
		}
		return Target{
			Label: labelFor(spec, tag),
			RA:    unit.RAFromDeg(raDeg),
			Dec:   unit.AngleFromDeg(decDeg),
		}, true, nil

	case strings.HasPrefix(spec, "lb/"):
		lon, lat, tag, err := splitCoordSpec(spec[len("lb/"):])
		if err != nil {
			return Target{}, true, fmt.Errorf("specifier %q: %w", spec, err)
		}
		lonDeg, err := parseDegrees(lon)
		if err != nil {
			return Target{}, true, fmt.Errorf("specifier %q: %w", spec, err)
		}
		latDeg, err := parseDegrees(lat)
		if err != nil {
			return Target{}, true, fmt.Errorf("specifier %q: %w", spec, err)
		}
		if latDeg < -90 || latDeg > 90 {
			return Target{}, true, fmt.Errorf("specifier %q: galactic latitude %v out of range", spec, latDeg)
		}
		ra, dec := galacticToJ2000(unit.AngleFromDeg(lonDeg), unit.AngleFromDeg(latDeg))
		return Target{Label: labelFor(spec, tag), RA: ra, Dec: dec}, true, nil
	}
	return Target{}, false, nil
}

// labelFor returns the display label: the explicit tag when present,
// otherwise the full original specifier.
func labelFor(spec, tag string) string {
	if tag != "" {
		return tag
	}
	return spec
}

// splitCoordSpec splits "ra,dec" or "ra,dec/tag" into its parts.
func splitCoordSpec(rest string) (a, b, tag string, err error) {
	if i := strings.Index(rest, "/"); i >= 0 {
		tag = rest[i+1:]
		rest = rest[:i]
		if tag == "" {
			return "", "", "", fmt.Errorf("empty tag")
		}
	}
	parts := strings.Split(rest, ",")
	if len(parts) != 2 {
		return "", "", "", fmt.Errorf("want two comma-separated coordinates, got %d", len(parts))
	}
	a = strings.TrimSpace(parts[0])
	b = strings.TrimSpace(parts[1])
	if a == "" || b == "" {
		return "", "", "", fmt.Errorf("empty coordinate")
	}
	return a, b, tag, nil
}

// parseRA parses a right ascension to degrees. Sexagesimal forms
// ("14h23m27s", "14:23:27") are hours; a plain number is degrees.
func parseRA(s string) (float64, error) {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if v < 0 || v >= 360 {
			return 0, fmt.Errorf("RA %v out of range [0,360)", v)
		}
		return v, nil
	}
	hours, sexagesimal, err := parseSexa(s, 'h')
	if err != nil {
		return 0, fmt.Errorf("bad RA %q: %w", s, err)
	}
	if !sexagesimal {
		return 0, fmt.Errorf("bad RA %q", s)
	}
	if hours < 0 || hours >= 24 {
		return 0, fmt.Errorf("RA %vh out of range [0,24)", hours)
	}
	return hours * 15, nil
}

// parseDec parses a declination to degrees; sexagesimal and plain forms are
// both degrees.
func parseDec(s string) (float64, error) {
	v, err := parseDegrees(s)
	if err != nil {
		return 0, fmt.Errorf("bad Dec %q: %w", s, err)
	}
	if v < -90 || v > 90 {
		return 0, fmt.Errorf("Dec %v out of range [-90,90]", v)
	}
	return v, nil
}

// parseDegrees parses "−29d30m15s", "-29:30:15", or "-29.5" to degrees.
func parseDegrees(s string) (float64, error) {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}
	v, _, err := parseSexa(s, 'd')
	return v, err
}

// parseSexa parses sexagesimal notation in either letter form
// ("14h23m27.5s" / "29d30m15s") or colon form ("14:23:27.5"). unitMark is
// the expected whole-unit letter, 'h' or 'd'. The returned value is in whole
// units (hours or degrees).
func parseSexa(s string, unitMark byte) (float64, bool, error) {
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" {
		return 0, false, fmt.Errorf("empty value")
	}

	var fields [3]string
	switch {
	case strings.ContainsRune(s, ':'):
		parts := strings.Split(s, ":")
		if len(parts) > 3 {
			return 0, true, fmt.Errorf("too many fields")
		}
		copy(fields[:], parts)
	case strings.ContainsRune(s, rune(unitMark)):
		rest := s
		for i, mark := range []byte{unitMark, 'm', 's'} {
			j := strings.IndexByte(rest, mark)
			if j < 0 {
				break
			}
			fields[i] = rest[:j]
			rest = rest[j+1:]
		}
		if rest != "" {
			return 0, true, fmt.Errorf("trailing %q", rest)
		}
	default:
		return 0, false, fmt.Errorf("not a number or sexagesimal value")
	}

	var parts [3]float64
	for i, f := range fields {
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return 0, true, fmt.Errorf("bad field %q", f)
		}
		if v < 0 {
			return 0, true, fmt.Errorf("sign inside field %q", f)
		}
		parts[i] = v
	}
	v := parts[0] + parts[1]/60 + parts[2]/3600
	if neg {
		v = -v
	}
	return v, true, nil
}

// galacticToJ2000 converts galactic coordinates to J2000 equatorial. The
// rotation in meeus is referred to the B1950 galactic pole, so the result is
// precessed from 1950 to 2000.
func galacticToJ2000(l, b unit.Angle) (unit.RA, unit.Angle) {
	α, δ := coord.GalToEq(l, b)
	from := &coord.Equatorial{RA: α, Dec: δ}
	to := &coord.Equatorial{}
	precess.Position(from, to, 1950, 2000, 0, 0)
	return to.RA, to.Dec
}
