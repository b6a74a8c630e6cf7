package data

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Timestamp layouts found in the measurement workbooks.
const (
	LayoutYMD = "2006-01-02 15:04"
	LayoutDMY = "02.01.2006 15:04"
)

var (
	ErrInvalidNumber    = errors.New("invalid number")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// ParseNumber parses a decimal that may use a comma as decimal separator.
func ParseNumber(s string) (float64, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrInvalidNumber, s)
	}
	return v, nil
}

// ParseTimestamp parses a spreadsheet timestamp cell. Text cells use layout
// (after newline cleanup), numeric cells are Excel serial dates. Naive
// timestamps are interpreted in loc; nil means UTC.
func ParseTimestamp(s, layout string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	cleaned := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "\r", ""))
	if ts, err := time.ParseInLocation(layout, cleaned, loc); err == nil {
		return ts, nil
	}
	if serial, err := strconv.ParseFloat(cleaned, 64); err == nil && serial >= 0 && !math.IsInf(serial, 0) {
		return ExcelSerialToTime(serial, loc), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q does not match %q", ErrInvalidTimestamp, s, layout)
}

// ExcelSerialToTime converts an Excel serial date (days since 1899-12-30,
// fractional part = time of day) at millisecond resolution. The serial is a
// wall-clock reading, so it is placed in loc without DST arithmetic.
func ExcelSerialToTime(serial float64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	ms := int64(math.Round(serial * 86400 * 1000))
	wall := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC).Add(time.Duration(ms) * time.Millisecond)
	return time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), wall.Second(), wall.Nanosecond(), loc)
}
