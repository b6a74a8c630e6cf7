package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateGrid_SinglePoint(t *testing.T) {
	grid, err := GenerateGrid(t0, t0, time.Minute)
	require.NoError(t, err)
	require.Len(t, grid, 1)
	assert.True(t, grid[0].Equal(t0))
}

func TestGenerateGrid_InclusiveEnd(t *testing.T) {
	grid, err := GenerateGrid(t0, t0.Add(10*time.Minute), time.Minute)
	require.NoError(t, err)
	require.Len(t, grid, 11)
	for i := 1; i < len(grid); i++ {
		assert.Equal(t, time.Minute, grid[i].Sub(grid[i-1]))
	}
	assert.True(t, grid[10].Equal(t0.Add(10*time.Minute)))
}

func TestGenerateGrid_EndOffBoundary(t *testing.T) {
	grid, err := GenerateGrid(t0, t0.Add(10*time.Minute+30*time.Second), time.Minute)
	require.NoError(t, err)
	require.Len(t, grid, 11)
	assert.True(t, grid[len(grid)-1].Equal(t0.Add(10*time.Minute)))
}

func TestGenerateGrid_NoDriftOverLongRange(t *testing.T) {
	step, err := StepFromMinutes(1)
	require.NoError(t, err)
	grid, err := GenerateGrid(t0, t0.Add(10000*time.Minute), step)
	require.NoError(t, err)
	require.Len(t, grid, 10001)
	assert.True(t, grid[10000].Equal(t0.Add(10000*time.Minute)))
	for i := 1; i < len(grid); i++ {
		if grid[i].Sub(grid[i-1]) != time.Minute {
			t.Fatalf("spacing drifted at %d: %s", i, grid[i].Sub(grid[i-1]))
		}
	}
}

func TestGenerateGrid_EndBeforeStart(t *testing.T) {
	grid, err := GenerateGrid(t0, t0.Add(-time.Minute), time.Minute)
	require.NoError(t, err)
	assert.Empty(t, grid)
}

func TestGenerateGrid_InvalidStep(t *testing.T) {
	_, err := GenerateGrid(t0, t0.Add(time.Hour), 0)
	assert.ErrorIs(t, err, ErrInvalidStep)
}

func TestStepFromMinutes(t *testing.T) {
	step, err := StepFromMinutes(0.25)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, step)

	_, err = StepFromMinutes(0)
	assert.ErrorIs(t, err, ErrInvalidStep)
	_, err = StepFromMinutes(-1)
	assert.ErrorIs(t, err, ErrInvalidStep)
}
