package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeGridProfile(t *testing.T) {
	before := make([]float64, 101)
	after := make([]float64, 101)
	for i := range before {
		before[100-i] = float64(i)
		after[i] = float64(i) / 2
	}

	p := ComputeGridProfile(before, after)
	assert.InDelta(t, 0, p.Before.Min, 1e-9)
	assert.InDelta(t, 100, p.Before.Max, 1e-9)
	assert.InDelta(t, 50, p.Before.Mean, 1e-9)
	assert.InDelta(t, 5, p.Before.P05, 1e-9)
	assert.InDelta(t, 95, p.Before.P95, 1e-9)
	assert.InDelta(t, 50, p.After.Max, 1e-9)
	assert.InDelta(t, 50, p.PeakReductionKW, 1e-9)

	// Input order is preserved.
	assert.InDelta(t, 100, before[0], 1e-9)
}

func TestPercentileSorted(t *testing.T) {
	vals := []float64{10, 20}
	assert.InDelta(t, 15, percentileSorted(vals, 0.5), 1e-9)
	assert.InDelta(t, 10, percentileSorted(vals, 0), 1e-9)
	assert.InDelta(t, 20, percentileSorted(vals, 1), 1e-9)
	assert.Zero(t, percentileSorted(nil, 0.5))
}

func TestComputeGridProfile_Empty(t *testing.T) {
	assert.Equal(t, GridProfile{}, ComputeGridProfile(nil, nil))
}
