package analysis

import (
	"fmt"
	"sort"
	"strings"

	"mixanalyzer/core"
)

// NoFrequencyIssues is emitted when neither the AI prose nor the per-band
// analysis yields anything frequency-related.
const NoFrequencyIssues = "No specific frequency issues identified."

// MaintainPrefix marks a recommendation derived from a strength rather than
// a weakness.
const MaintainPrefix = "Maintain: "

// frequencyKeywords is the fixed vocabulary used to decide whether a
// sentence of AI prose is about frequency content. Matching is
// case-insensitive substring.
var frequencyKeywords = []string{
	"frequency", "frequencies", "spectrum", "spectral", "tonal",
	"eq", "equalization", "equalizer",
	"hz", "khz",
	"bass", "sub-bass", "sub bass", "low end", "low-end", "lows",
	"low mids", "low-mids", "midrange", "mids", "mid-range",
	"high mids", "high-mids", "highs", "high end", "high-end",
	"treble", "air", "presence",
	"bright", "brightness", "dark", "dull",
	"muddy", "mud", "boomy", "boxy", "honky", "nasal",
	"harsh", "harshness", "sibilance", "sibilant", "tinny", "shrill",
	"thin", "warm", "warmth", "rumble", "resonance", "resonant",
	"boost", "attenuate", "roll-off", "rolloff", "shelf", "notch",
}

// FrequencyView is the frequency-focused distillation of an analysis.
// Both slices are guaranteed non-empty.
type FrequencyView struct {
	Issues          []string
	Recommendations []string
}

// ExtractFrequencyView greps AI-generated prose for frequency-related
// content. Either input may be nil; the fallback chain guarantees non-empty
// output either way.
func ExtractFrequencyView(ai *core.AIInsights, fb *core.FrequencyBalance) FrequencyView {
	var view FrequencyView

	if ai != nil {
		pool := append([]string{}, ai.Weaknesses...)
		if hasFrequencyKeyword(ai.Summary) {
			pool = append(pool, ai.Summary)
		}
		pool = append(pool, matchingSentences(ai.GenreContext)...)
		view.Issues = filterFrequencyItems(pool)
	}
	if len(view.Issues) == 0 && fb != nil {
		view.Issues = append(view.Issues, fb.Analysis...)
	}
	if len(view.Issues) == 0 {
		view.Issues = []string{NoFrequencyIssues}
	}

	if ai != nil {
		pool := append([]string{}, ai.Suggestions...)
		pool = append(pool, ai.ProcessingRecommendations...)
		for _, s := range ai.Strengths {
			if hasFrequencyKeyword(s) {
				pool = append(pool, MaintainPrefix+s)
			}
		}
		if sentences := matchingSentences(ai.GenreContext); len(sentences) > 0 {
			pool = append(pool, "For this genre: "+sentences[0])
		}
		view.Recommendations = filterFrequencyItems(pool)
	}
	if len(view.Recommendations) == 0 {
		view.Recommendations = bandEnergyFallback(fb)
	}
	return view
}

// hasFrequencyKeyword reports whether text mentions any term in the fixed
// keyword set.
func hasFrequencyKeyword(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range frequencyKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func filterFrequencyItems(items []string) []string {
	var out []string
	for _, item := range items {
		if hasFrequencyKeyword(item) {
			out = append(out, item)
		}
	}
	return out
}

// matchingSentences splits prose into sentences and keeps only the ones that
// mention a frequency term.
func matchingSentences(text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	for _, s := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		s = strings.TrimSpace(s)
		if s != "" && hasFrequencyKeyword(s) {
			out = append(out, s+".")
		}
	}
	return out
}

// bandEnergyFallback synthesizes recommendations from the band energy map:
// boost the weakest band, and flag the strongest when it dominates.
func bandEnergyFallback(fb *core.FrequencyBalance) []string {
	if fb == nil || len(fb.BandEnergy) == 0 {
		return []string{NoFrequencyIssues}
	}

	minBand, maxBand := "", ""
	minEnergy, maxEnergy := 0.0, 0.0
	for _, band := range core.BandNames {
		energy, ok := fb.BandEnergy[band]
		if !ok {
			continue
		}
		if minBand == "" || energy < minEnergy {
			minBand, minEnergy = band, energy
		}
		if maxBand == "" || energy > maxEnergy {
			maxBand, maxEnergy = band, energy
		}
	}
	if minBand == "" {
		// Bands outside the known set: fall back to map order, sorted for
		// determinism.
		names := make([]string, 0, len(fb.BandEnergy))
		for name := range fb.BandEnergy {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, band := range names {
			energy := fb.BandEnergy[band]
			if minBand == "" || energy < minEnergy {
				minBand, minEnergy = band, energy
			}
			if maxBand == "" || energy > maxEnergy {
				maxBand, maxEnergy = band, energy
			}
		}
	}

	recs := []string{
		fmt.Sprintf("Consider a gentle boost in the %s range (currently the lowest energy band at %.0f%%).", prettyBand(minBand), minEnergy),
	}
	if maxEnergy > 90 {
		recs = append(recs, fmt.Sprintf("The %s range is very prominent (%.0f%%); a slight attenuation may improve balance.", prettyBand(maxBand), maxEnergy))
	}
	return recs
}

// prettyBand turns a band key like "low_mids" into "low mids".
func prettyBand(band string) string {
	return strings.ReplaceAll(band, "_", " ")
}
