// Package ephem computes horizon-frame tracks of the sun, the moon, and
// fixed targets over a time series.
package ephem

import (
	"fmt"
	"time"
)

// PointsPerHour is the sampling density of the plotted window.
const PointsPerHour = 50

// Series is an evenly spaced, strictly increasing sequence of instants
// symmetric around a center time.
type Series struct {
	Times  []time.Time
	Center time.Time
}

// NewSeries builds the plot time series: 50*rangeHours points on each side
// of center, spanning [center-rangeHours, center+rangeHours] inclusive.
func NewSeries(center time.Time, rangeHours int) (Series, error) {
	if rangeHours < 1 {
		return Series{}, fmt.Errorf("range must be at least 1 hour, got %d", rangeHours)
	}
	n := PointsPerHour * rangeHours * 2
	half := time.Duration(rangeHours) * time.Hour
	step := 2 * half / time.Duration(n-1)

	// Built as mirrored pairs so symmetry around center is exact. n is
	// even, so no sample falls on center itself.
	times := make([]time.Time, n)
	for i := 0; i < n/2; i++ {
		off := half - time.Duration(i)*step
		times[i] = center.Add(-off)
		times[n-1-i] = center.Add(off)
	}
	return Series{Times: times, Center: center}, nil
}

// CenterTime returns the instant at the given UTC hour on date.
func CenterTime(date time.Time, hour int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, time.UTC)
}
