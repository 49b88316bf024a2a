package validator

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	decimalPattern    = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	integerPattern    = regexp.MustCompile(`^-?\d+$`)
	petWeightPattern  = regexp.MustCompile(`(?i)^\d+(\.\d+)?\s*(lb|lbs|kg|kgs|pounds|kilos)?$`)
	thousandGrouped   = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)
	currencyJunk      = `$€£`
	leadingPlus       = "+"
	thousandSeparator = ","
)

// isDecimal reports whether s is a plain decimal literal: optional leading
// minus, digits, optional fraction. No currency symbols, separators, or
// exponents.
func isDecimal(s string) bool {
	return decimalPattern.MatchString(s)
}

// isInteger reports whether s is a plain integer literal.
func isInteger(s string) bool {
	return integerPattern.MatchString(s)
}

// numericJunk returns a short description of the formatting defect that makes
// s invalid as a numeric value, or "" when no recognized junk is present.
// Callers report junk distinctly from a plain format failure so feeds can be
// corrected at the source.
func numericJunk(s string) string {
	if strings.ContainsAny(s, currencyJunk) {
		return "currency symbol"
	}
	if strings.Contains(s, thousandSeparator) {
		return "thousands separator"
	}
	if strings.HasPrefix(s, leadingPlus) {
		return "leading plus sign"
	}
	if strings.Contains(strings.TrimSpace(s), " ") {
		return "embedded whitespace"
	}
	return ""
}

// isThousandsGrouped reports whether s is a number formatted with comma
// thousands groups, e.g. "1,500.00". Detected before stepped-value splitting
// so the comma is not mistaken for a value separator.
func isThousandsGrouped(s string) bool {
	return thousandGrouped.MatchString(strings.TrimSpace(s))
}

// isNonNegativeDecimal reports whether s parses as a decimal >= 0.
func isNonNegativeDecimal(s string) bool {
	if !isDecimal(s) {
		return false
	}
	return !strings.HasPrefix(s, "-")
}

// parseDecimal parses a validated decimal literal into a float64. Returns
// false if s does not match the decimal grammar.
func parseDecimal(s string) (float64, bool) {
	if !isDecimal(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// isPositiveInteger reports whether s is an integer literal > 0.
func isPositiveInteger(s string) bool {
	if !isInteger(s) || strings.HasPrefix(s, "-") {
		return false
	}
	v, err := strconv.Atoi(s)
	return err == nil && v > 0
}

// isPetWeight reports whether s is a weight value with an optional supported
// unit suffix, e.g. "25", "25.5 lbs", "10kg".
func isPetWeight(s string) bool {
	return petWeightPattern.MatchString(strings.TrimSpace(s))
}

// splitSteppedValues splits a Stepped amounts payload on commas, tabs and
// newlines, dropping empty segments.
func splitSteppedValues(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
	var out []string
	for _, f := range fields {
		if t := strings.TrimSpace(f); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// looksJoinedRange reports whether a single amounts payload appears to pack
// two range endpoints into one element, e.g. "50-100" or "50, 100".
func looksJoinedRange(s string) bool {
	t := strings.TrimSpace(s)
	if t == "" {
		return false
	}
	if strings.Contains(t, ",") {
		return true
	}
	// A dash after the first character separates endpoints; a leading dash
	// is just a negative sign.
	if i := strings.IndexRune(t[1:], '-'); i >= 0 {
		return true
	}
	return false
}
