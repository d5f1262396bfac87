package invoice

import (
	"strconv"
	"strings"
)

// ParseQuantity keeps only digits and '.', then parses the rest as a
// number. Arabic-Indic digits and the Arabic decimal separator are
// accepted. Returns false unless the result is a positive number.
func ParseQuantity(raw string) (float64, bool) {
	cleaned := keepNumeric(normalizeDigits(raw))
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func keepNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeDigits rewrites Arabic-Indic (U+0660..) and Extended
// Arabic-Indic (U+06F0..) digits as ASCII.
func normalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		case r == '٫':
			return '.'
		}
		return r
	}, s)
}
