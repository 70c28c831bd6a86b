// Package render builds the terminal analysis report. Every call rebuilds
// the full report from the payload alone, so re-rendering with a different
// result leaves no trace of the previous one.
package render

import (
	"fmt"
	"math"
	"strings"
)

// NotAvailable is the sentinel for a missing numeric field.
const NotAvailable = "N/A"

// Fixed per-field formatting. These widths and precisions are part of the
// report contract; changing them changes what users (and tests) see.

// formatDB renders decibel values to one decimal place.
func formatDB(v float64) string {
	return fmt.Sprintf("%.1f dB", v)
}

// formatScore rounds a 0-100 score to an integer.
func formatScore(v float64) string {
	return fmt.Sprintf("%.0f", math.Round(v))
}

// formatPercent rounds to an integer percentage.
func formatPercent(v float64) string {
	return fmt.Sprintf("%.0f%%", math.Round(v))
}

// formatRatio renders a ratio to two decimal places.
func formatRatio(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// formatCorrelation renders stereo correlation to two decimal places. The
// regenerated stereo report uses four (see formatCorrelationFine).
func formatCorrelation(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatCorrelationFine(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// formatFlatness renders spectral flatness to three decimal places.
func formatFlatness(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

// formatHz renders a frequency as a rounded integer with unit.
func formatHz(v float64) string {
	return fmt.Sprintf("%.0f Hz", math.Round(v))
}

// formatMs renders a millisecond value to one decimal place.
func formatMs(v float64) string {
	return fmt.Sprintf("%.1f ms", v)
}

// formatChordChanges renders chord changes per minute to one decimal place.
func formatChordChanges(v float64) string {
	return fmt.Sprintf("%.1f/min", v)
}

// formatMidSide renders mid/side energy as paired integer percentages.
func formatMidSide(mid, side float64) string {
	return fmt.Sprintf("%.0f%% / %.0f%%", mid*100, side*100)
}

// prettyBandLabel turns "sub_bass" into "Sub Bass".
func prettyBandLabel(band string) string {
	words := strings.Split(band, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
