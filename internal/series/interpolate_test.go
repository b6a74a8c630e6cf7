package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func TestInterpolate_Endpoints(t *testing.T) {
	t1 := t0.Add(15 * time.Minute)
	assert.Equal(t, 10.0, Interpolate(t0, t1, 10, 40, t0))
	assert.Equal(t, 40.0, Interpolate(t0, t1, 10, 40, t1))
}

func TestInterpolate_Midpoint(t *testing.T) {
	t1 := t0.Add(15 * time.Minute)
	mid := t0.Add(t1.Sub(t0) / 2)
	assert.Equal(t, 25.0, Interpolate(t0, t1, 10, 40, mid))
	assert.Equal(t, -1.5, Interpolate(t0, t1, -1, -2, mid))
}

func TestInterpolate_SubSecondPrecision(t *testing.T) {
	t1 := t0.Add(time.Second)
	got := Interpolate(t0, t1, 0, 1000, t0.Add(250*time.Millisecond))
	assert.InDelta(t, 250, got, 1e-9)
}

func TestInterpolate_DegenerateBracketReturnsV0(t *testing.T) {
	assert.Equal(t, 7.0, Interpolate(t0, t0, 7, 99, t0.Add(time.Hour)))
}

func TestInterpolate_ExtrapolatesOutsideBracket(t *testing.T) {
	t1 := t0.Add(10 * time.Minute)
	assert.InDelta(t, 20, Interpolate(t0, t1, 0, 10, t0.Add(20*time.Minute)), 1e-9)
}
