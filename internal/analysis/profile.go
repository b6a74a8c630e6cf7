package analysis

import (
	"math"
	"sort"
)

// PowerStats are distribution statistics of one grid power series (kW).
type PowerStats struct {
	Min  float64 `json:"min_kw"`
	Max  float64 `json:"max_kw"`
	Mean float64 `json:"mean_kw"`
	P05  float64 `json:"p05_kw"`
	P95  float64 `json:"p95_kw"`
}

// GridProfile compares the grid power distribution without and with the battery.
type GridProfile struct {
	Before PowerStats `json:"before"`
	After  PowerStats `json:"after"`

	// PeakReductionKW is Before.Max - After.Max; negative when the battery
	// raised the peak (e.g. by absorbing balancing energy).
	PeakReductionKW float64 `json:"peak_reduction_kw"`
}

func ComputeGridProfile(before, after []float64) GridProfile {
	p := GridProfile{
		Before: computeStats(before),
		After:  computeStats(after),
	}
	p.PeakReductionKW = p.Before.Max - p.After.Max
	return p
}

func computeStats(values []float64) PowerStats {
	s := PowerStats{}
	if len(values) == 0 {
		return s
	}
	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, len(values))
	for _, v := range values {
		vals = append(vals, v)
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	sort.Float64s(vals)
	s.Min = minv
	s.Max = maxv
	s.Mean = sum / float64(len(vals))
	s.P05 = percentileSorted(vals, 0.05)
	s.P95 = percentileSorted(vals, 0.95)
	return s
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
