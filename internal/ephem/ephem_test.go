package ephem

import (
	"testing"
	"time"

	"github.com/soniakeys/unit"

	"github.com/litescript/ls-visplot/internal/site"
)

// flatDeltaT is close enough to the real 2020s value for sanity tests.
func flatDeltaT(time.Time) float64 { return 69 }

func equatorSite() site.Site {
	return site.Site{Name: "equator", Latitude: 0, Longitude: 0}
}

func TestSun_EquinoxNoonNearZenith(t *testing.T) {
	// At the 2024 March equinox the sun stands nearly overhead at noon UT
	// on the equator at the prime meridian.
	e := NewEvaluator(equatorSite(), flatDeltaT)
	ser := Series{Times: []time.Time{
		time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC), // near local noon
		time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),  // near local midnight
	}}

	tr := e.Sun(ser)

	if tr.Alt[0] < 80 {
		t.Errorf("noon sun altitude = %.2f°, want > 80°", tr.Alt[0])
	}
	if tr.Alt[1] > -80 {
		t.Errorf("midnight sun altitude = %.2f°, want < -80°", tr.Alt[1])
	}
}

func TestSun_NoonAzimuthIsSouthFromNorthernSite(t *testing.T) {
	s := site.Site{Name: "north", Latitude: 45, Longitude: 0}
	e := NewEvaluator(s, flatDeltaT)
	ser := Series{Times: []time.Time{time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)}}

	tr := e.Sun(ser)

	if tr.Az[0] < 150 || tr.Az[0] > 210 {
		t.Errorf("noon sun azimuth = %.2f°, want near 180° (south)", tr.Az[0])
	}
	if tr.Alt[0] < 60 || tr.Alt[0] > 75 {
		// Solstice transit altitude from 45N is 90-45+23.4 = 68.4.
		t.Errorf("solstice noon altitude = %.2f°, want ~68°", tr.Alt[0])
	}
}

func TestTracks_AzimuthAlwaysInRange(t *testing.T) {
	c, err := site.Default().Lookup("HESS")
	if err != nil {
		t.Fatal(err)
	}
	e := NewEvaluator(c, flatDeltaT)
	ser, err := NewSeries(time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC), 12)
	if err != nil {
		t.Fatal(err)
	}

	tracks := map[string]Track{
		"sun":    e.Sun(ser),
		"moon":   e.Moon(ser),
		"target": e.Target(ser, unit.RAFromDeg(83.633), unit.AngleFromDeg(22.014)),
	}

	for name, tr := range tracks {
		if len(tr.Alt) != len(ser.Times) || len(tr.Az) != len(ser.Times) {
			t.Fatalf("%s: track length %d/%d, want %d", name, len(tr.Alt), len(tr.Az), len(ser.Times))
		}
		for i, az := range tr.Az {
			if az < 0 || az >= 360 {
				t.Fatalf("%s: azimuth[%d] = %v, want [0,360)", name, i, az)
			}
		}
		for i, alt := range tr.Alt {
			if alt < -91 || alt > 91 {
				t.Fatalf("%s: altitude[%d] = %v out of range", name, i, alt)
			}
		}
	}
}

func TestMoon_RisesAndSetsFromEquator(t *testing.T) {
	// From the equator the moon transits above 60° and dips well below the
	// horizon every day regardless of lunar phase or node.
	e := NewEvaluator(equatorSite(), flatDeltaT)
	ser, err := NewSeries(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), 13)
	if err != nil {
		t.Fatal(err)
	}

	tr := e.Moon(ser)

	maxAlt, minAlt := -91.0, 91.0
	for _, a := range tr.Alt {
		if a > maxAlt {
			maxAlt = a
		}
		if a < minAlt {
			minAlt = a
		}
	}
	if maxAlt < 50 {
		t.Errorf("max moon altitude = %.2f°, want > 50°", maxAlt)
	}
	if minAlt > -50 {
		t.Errorf("min moon altitude = %.2f°, want < -50°", minAlt)
	}
}

func TestTarget_CircumpolarStaysNearPoleAltitude(t *testing.T) {
	// Polaris from 45N: altitude stays within a degree of the pole.
	s := site.Site{Name: "north", Latitude: 45, Longitude: 0}
	e := NewEvaluator(s, flatDeltaT)
	ser, err := NewSeries(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), 12)
	if err != nil {
		t.Fatal(err)
	}

	tr := e.Target(ser, unit.NewRA(2, 31, 49), unit.NewAngle(' ', 89, 15, 51))

	for i, alt := range tr.Alt {
		if alt < 43.5 || alt > 46.5 {
			t.Errorf("Polaris altitude[%d] = %.2f°, want ~45°", i, alt)
		}
	}
}
