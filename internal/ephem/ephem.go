package ephem

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/precess"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"

	"github.com/litescript/ls-visplot/internal/site"
)

// earthRadiusKm is the equatorial radius used for lunar parallax.
const earthRadiusKm = 6378.14

// Track is a body's horizon-frame path over a Series: parallel slices of
// altitude and azimuth in degrees. Azimuth is north-based, [0, 360).
type Track struct {
	Alt []float64
	Az  []float64
}

// DeltaTFunc supplies TT-UT1 seconds at an instant (see internal/eop).
type DeltaTFunc func(time.Time) float64

// Evaluator computes horizon-frame tracks for one site. Positions are
// recomputed on every call; nothing is cached.
type Evaluator struct {
	site   site.Site
	lat    unit.Angle
	lonW   unit.Angle // meeus convention: west-positive
	deltaT DeltaTFunc
}

// NewEvaluator creates an evaluator for a site. deltaT may not be nil.
func NewEvaluator(s site.Site, deltaT DeltaTFunc) *Evaluator {
	return &Evaluator{
		site:   s,
		lat:    unit.AngleFromDeg(s.Latitude),
		lonW:   unit.AngleFromDeg(-s.Longitude),
		deltaT: deltaT,
	}
}

// Sun returns the sun's track over the series, from the apparent solar
// position of date.
func (e *Evaluator) Sun(ser Series) Track {
	tr := newTrack(len(ser.Times))
	for i, t := range ser.Times {
		jd := julian.TimeToJD(t)
		α, δ := solar.ApparentEquatorial(e.jde(t, jd))
		tr.Alt[i], tr.Az[i] = e.horizon(α, δ, jd)
	}
	return tr
}

// Moon returns the moon's track over the series. The geocentric position
// from the lunar theory is reduced to equatorial coordinates of date, and
// the altitude is corrected for horizontal parallax, which for the moon is
// about a degree and decides the moon-up band.
func (e *Evaluator) Moon(ser Series) Track {
	tr := newTrack(len(ser.Times))
	for i, t := range ser.Times {
		jd := julian.TimeToJD(t)
		jde := e.jde(t, jd)

		λ, β, Δ := moonposition.Position(jde) // Δ in km
		Δψ, Δε := nutation.Nutation(jde)
		ε := nutation.MeanObliquity(jde) + Δε
		sε, cε := ε.Sincos()
		α, δ := coord.EclToEq(λ+Δψ, β, sε, cε)

		alt, az := e.horizon(α, δ, jd)
		π := math.Asin(earthRadiusKm / Δ)
		alt -= π * 180 / math.Pi * math.Cos(alt*math.Pi/180)
		tr.Alt[i], tr.Az[i] = alt, az
	}
	return tr
}

// Target returns the track of a fixed J2000 position over the series.
func (e *Evaluator) Target(ser Series, ra unit.RA, dec unit.Angle) Track {
	tr := newTrack(len(ser.Times))
	j2000 := &coord.Equatorial{RA: ra, Dec: dec}
	for i, t := range ser.Times {
		jd := julian.TimeToJD(t)
		var ofDate coord.Equatorial
		precess.Position(j2000, &ofDate, 2000, base.JDEToJulianYear(e.jde(t, jd)), 0, 0)
		tr.Alt[i], tr.Az[i] = e.horizon(ofDate.RA, ofDate.Dec, jd)
	}
	return tr
}

// jde converts a UT-based Julian day to ephemeris time.
func (e *Evaluator) jde(t time.Time, jd float64) float64 {
	return jd + e.deltaT(t)/86400
}

// horizon transforms equatorial coordinates of date to altitude and
// north-based azimuth, both in degrees.
func (e *Evaluator) horizon(α unit.RA, δ unit.Angle, jd float64) (alt, az float64) {
	st := sidereal.Apparent(jd)
	A, h := coord.EqToHz(α, δ, e.lat, e.lonW, st)
	// meeus measures azimuth westward from south; rebase to north.
	az = math.Mod(A.Deg()+180, 360)
	if az < 0 {
		az += 360
	}
	return h.Deg(), az
}

func newTrack(n int) Track {
	return Track{Alt: make([]float64, n), Az: make([]float64, n)}
}
