package catalog

import (
	"fmt"
	"strconv"
)

// positiveInt reports a failure when a non-empty value is not a whole number above zero.
func positiveInt(form Form, name, label string) string {
	v := form[name]
	if v == "" {
		return ""
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return label + " must be a positive whole number"
	}
	return ""
}

// intBetween reports a failure when a non-empty value is outside [lo, hi].
func intBetween(form Form, name, label string, lo, hi int) string {
	v := form[name]
	if v == "" {
		return ""
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < lo || n > hi {
		return fmt.Sprintf("%s must be a whole number between %d and %d", label, lo, hi)
	}
	return ""
}

// positiveDecimal reports a failure when a non-empty value is not a number above zero.
func positiveDecimal(form Form, name, label, unit string) string {
	v := form[name]
	if v == "" {
		return ""
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n <= 0 {
		if unit != "" {
			return label + " must be a positive number (in " + unit + ")"
		}
		return label + " must be a positive number"
	}
	return ""
}

func collect(msgs ...string) []string {
	var out []string
	for _, m := range msgs {
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}
