package analysis

import (
	"math"
	"time"
)

// PeakSample is one observation of grid power before and after the battery.
type PeakSample struct {
	Timestamp time.Time
	BeforeKW  float64
	AfterKW   float64
}

// MonthPeak is the monthly demand peak with and without the battery.
type MonthPeak struct {
	Year      int        `json:"year"`
	Month     time.Month `json:"month"`
	BeforeKW  float64    `json:"before_kw"`
	AfterKW   float64    `json:"after_kw"`
	SavedKW   float64    `json:"saved_kw"`
	SavedCost float64    `json:"saved_cost"`
}

type monthKey struct {
	Year  int
	Month time.Month
}

// MonthlyPeaks groups samples by (year, month) of their timestamp and keeps
// the maximum before/after power per month. SavedKW = max(before-after, 0),
// SavedCost = SavedKW * tariffPerKW. Months appear in order of first occurrence.
func MonthlyPeaks(samples []PeakSample, tariffPerKW float64) []MonthPeak {
	idx := make(map[monthKey]int)
	out := make([]MonthPeak, 0)
	for _, s := range samples {
		k := monthKey{Year: s.Timestamp.Year(), Month: s.Timestamp.Month()}
		i, ok := idx[k]
		if !ok {
			idx[k] = len(out)
			out = append(out, MonthPeak{
				Year:     k.Year,
				Month:    k.Month,
				BeforeKW: s.BeforeKW,
				AfterKW:  s.AfterKW,
			})
			continue
		}
		out[i].BeforeKW = math.Max(out[i].BeforeKW, s.BeforeKW)
		out[i].AfterKW = math.Max(out[i].AfterKW, s.AfterKW)
	}
	for i := range out {
		out[i].SavedKW = math.Max(out[i].BeforeKW-out[i].AfterKW, 0)
		out[i].SavedCost = out[i].SavedKW * tariffPerKW
	}
	return out
}

// TotalSavings sums SavedCost over all months.
func TotalSavings(months []MonthPeak) float64 {
	total := 0.0
	for _, m := range months {
		total += m.SavedCost
	}
	return total
}
