package ephem

// Sun altitude thresholds for the shaded bands, degrees. Fixed by
// convention, not configurable.
const (
	CivilSunMax        = 0.0
	NauticalSunMax     = -12.0
	AstronomicalSunMax = -18.0

	// MoonUpMin is the moon altitude above which the moon counts as up,
	// slightly below the horizon to cover refraction and the lunar disk.
	MoonUpMin = -0.5
)

// Bands are per-sample booleans derived from sun and moon altitude. Each
// deeper band implies the shallower ones.
type Bands struct {
	Civil        []bool // sun below the horizon
	Nautical     []bool // sun below -12°
	Astronomical []bool // sun below -18°
	MoonUp       []bool // moon up during astronomical darkness
}

// Classify derives the twilight and moon bands from parallel altitude
// slices. Slices of unequal length are truncated to the shorter.
func Classify(sunAlt, moonAlt []float64) Bands {
	n := len(sunAlt)
	if len(moonAlt) < n {
		n = len(moonAlt)
	}
	b := Bands{
		Civil:        make([]bool, n),
		Nautical:     make([]bool, n),
		Astronomical: make([]bool, n),
		MoonUp:       make([]bool, n),
	}
	for i := 0; i < n; i++ {
		b.Civil[i] = sunAlt[i] < CivilSunMax
		b.Nautical[i] = sunAlt[i] < NauticalSunMax
		b.Astronomical[i] = sunAlt[i] < AstronomicalSunMax
		b.MoonUp[i] = moonAlt[i] > MoonUpMin && sunAlt[i] < AstronomicalSunMax
	}
	return b
}
