package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	cases := map[string]float64{
		"12.5":   12.5,
		"12,5":   12.5,
		" -3,25": -3.25,
		"0":      0,
		"1e3":    1000,
	}
	for in, want := range cases {
		got, err := ParseNumber(in)
		require.NoError(t, err, in)
		assert.InDelta(t, want, got, 1e-12, in)
	}

	for _, in := range []string{"", "abc", "NaN", "Inf"} {
		_, err := ParseNumber(in)
		assert.ErrorIs(t, err, ErrInvalidNumber, in)
	}
}

func TestParseTimestamp_Layouts(t *testing.T) {
	ts, err := ParseTimestamp("2024-03-01 13:45", LayoutYMD, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 13, 45, 0, 0, time.UTC), ts)

	ts, err = ParseTimestamp(" 01.03.2024\r\n13:45 ", LayoutDMY, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 13, 45, 0, 0, time.UTC), ts)

	_, err = ParseTimestamp("2024-03-01 13:45", LayoutDMY, nil)
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestParseTimestamp_ExcelSerial(t *testing.T) {
	ts, err := ParseTimestamp("45352.010416666664", LayoutYMD, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 15, 0, 0, time.UTC), ts)

	ts, err = ParseTimestamp("45352", LayoutDMY, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ts)
}

func TestParseTimestamp_Location(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	ts, err := ParseTimestamp("2024-03-01 01:00", LayoutYMD, cet)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ts.UTC())

	ts = ExcelSerialToTime(45352.5, cet)
	assert.Equal(t, 12, ts.Hour())
	assert.Equal(t, cet, ts.Location())
}
