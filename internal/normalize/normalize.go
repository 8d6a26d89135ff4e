// Package normalize parses raw calendar magnitudes such as "223K" or "2.5%"
// into floats, and formats them back for display.
package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Grammar: optional comparison marker, optional sign, decimal number with
// optional thousands separators, optional unit suffix (K/M/B/T) or percent.
var valuePattern = regexp.MustCompile(`(?i)^\s*[<>≤≥]?([+-]?)([\d,]+\.?\d*)\s*([kmbt%]?)\s*$`)

var unitMultipliers = map[string]float64{
	"k": 1e3,
	"m": 1e6,
	"b": 1e9,
	"t": 1e12,
}

// Value parses a raw calendar value into a float. The second return is
// false when the input is empty, whitespace-only or does not match the
// grammar; there are no partial parses.
func Value(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, false
	}

	m := valuePattern.FindStringSubmatch(cleaned)
	if m == nil {
		return 0, false
	}

	sign, number, unit := m[1], m[2], m[3]

	number = strings.ReplaceAll(number, ",", "")
	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, false
	}

	if sign == "-" {
		value = -value
	}

	switch strings.ToLower(unit) {
	case "%":
		value /= 100
	case "k", "m", "b", "t":
		value *= unitMultipliers[strings.ToLower(unit)]
	}

	return value, true
}

// ValuePtr is Value for optional inputs, as they arrive from the parser.
func ValuePtr(raw *string) *float64 {
	if raw == nil {
		return nil
	}
	v, ok := Value(*raw)
	if !ok {
		return nil
	}
	return &v
}

// Format renders a normalized value back to a human-readable string,
// choosing the largest suffix whose magnitude is at least 1000 when
// useSuffix is set.
func Format(value float64, precision int, useSuffix bool) string {
	if !useSuffix {
		return strconv.FormatFloat(value, 'f', precision, 64)
	}

	abs := math.Abs(value)
	sign := ""
	if value < 0 {
		sign = "-"
	}

	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%s%.*fT", sign, precision, abs/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%s%.*fB", sign, precision, abs/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%s%.*fM", sign, precision, abs/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%s%.*fK", sign, precision, abs/1e3)
	default:
		return fmt.Sprintf("%s%.*f", sign, precision, abs)
	}
}
