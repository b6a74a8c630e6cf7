package series

import (
	"fmt"
	"math"
	"time"
)

// GenerateGrid returns start, start+step, start+2*step, ... up to and
// including the largest point <= end. Each point is computed as start+i*step
// so long ranges do not drift. An end before start yields an empty grid.
func GenerateGrid(start, end time.Time, step time.Duration) ([]time.Time, error) {
	if step <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStep, step)
	}
	if end.Before(start) {
		return []time.Time{}, nil
	}
	n := int(end.Sub(start)/step) + 1
	grid := make([]time.Time, n)
	for i := 0; i < n; i++ {
		grid[i] = start.Add(time.Duration(i) * step)
	}
	return grid, nil
}

// StepFromMinutes converts a (possibly fractional) minute count into a
// Duration, rounded to the nearest millisecond.
func StepFromMinutes(minutes float64) (time.Duration, error) {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) || minutes <= 0 {
		return 0, fmt.Errorf("%w: %v minutes", ErrInvalidStep, minutes)
	}
	ms := math.Round(minutes * 60 * 1000)
	if ms < 1 {
		return 0, fmt.Errorf("%w: %v minutes is below 1ms", ErrInvalidStep, minutes)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
