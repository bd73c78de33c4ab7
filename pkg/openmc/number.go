package openmc

import (
	"math"
	"strconv"
	"strings"
)

// formatDensity prints a density magnitude in its shortest decimal form,
// keeping a trailing point on integral values ("1.", "0.5", "1e+21").
func formatDensity(d float64) string {
	s := strconv.FormatFloat(math.Abs(d), 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += "."
	}
	return s
}

// formatWeight prints a fraction in fixed exponent form with four digits
// after the point ("6.6667e-01").
func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'e', 4, 64)
}
