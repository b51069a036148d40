package annotations

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotANumber is returned when a numeric attribute cannot be parsed.
	ErrNotANumber = errors.New("not a number")
	// ErrBadTimestamp is returned when a time attribute is not H:MM:SS.CC.
	ErrBadTimestamp = errors.New("timestamp does not match H:MM:SS.CC")
)

// Whole seconds beyond this would overflow time.Duration.
const maxTimestampSeconds = math.MaxInt64/int64(time.Second) - 1

// ParseFloat parses the whole of s as a finite decimal floating-point number.
// A leading sign other than '-' is rejected, as are hex floats and digit
// separators.
func ParseFloat(s string) (float64, error) {
	if s == "" || s[0] == '+' || strings.ContainsAny(s, "xX_") {
		return 0, ErrNotANumber
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrNotANumber
	}
	return v, nil
}

// ParseRGB parses s as an unsigned decimal integer that fits in 32 bits.
// Whether the value is a legal 24-bit color is left to the caller.
func ParseRGB(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, ErrNotANumber
	}
	return uint32(v), nil
}

// ParseTimestamp parses "H:MM:SS.CC" into a duration. Hours, minutes and
// seconds are unsigned integers of any width; only the first two digits of
// the fractional part are read, as centiseconds.
func ParseTimestamp(s string) (time.Duration, error) {
	clock, frac, ok := strings.Cut(s, ".")
	if !ok {
		return 0, ErrBadTimestamp
	}

	fields := strings.Split(clock, ":")
	if len(fields) != 3 {
		return 0, ErrBadTimestamp
	}

	hours, ok := parseDigits(fields[0])
	if !ok {
		return 0, ErrBadTimestamp
	}
	minutes, ok := parseDigits(fields[1])
	if !ok {
		return 0, ErrBadTimestamp
	}
	seconds, ok := parseDigits(fields[2])
	if !ok {
		return 0, ErrBadTimestamp
	}
	if !isDigits(frac) {
		return 0, ErrBadTimestamp
	}
	if len(frac) > 2 {
		frac = frac[:2]
	}
	centis, _ := parseDigits(frac)

	// Each field fits in 32 bits, so the sum cannot wrap a uint64.
	total := hours*3600 + minutes*60 + seconds
	if total > uint64(maxTimestampSeconds) {
		return 0, ErrBadTimestamp
	}
	return time.Duration(total)*time.Second + time.Duration(centis)*10*time.Millisecond, nil
}

// parseDigits accepts a non-empty run of ASCII digits.
func parseDigits(s string) (uint64, bool) {
	if !isDigits(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
