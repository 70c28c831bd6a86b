package analysis

import "mixanalyzer/core"

// assumedSampleRate anchors the centroid scoring curve. The server analyzes
// at the file's native rate but does not report it, so the breakdown assumes
// the common case.
const assumedSampleRate = 44100.0

// Clarity component weights differ by track type: instrumental mixes lean on
// contrast and flatness, vocal mixes on centroid placement.
const (
	instContrastWeight = 0.5
	instFlatnessWeight = 0.3
	instCentroidWeight = 0.2

	vocalContrastWeight = 0.4
	vocalFlatnessWeight = 0.2
	vocalCentroidWeight = 0.4
)

// ClarityBreakdown is the per-component view of the clarity score, shown in
// the report alongside the server's composite. Display-only: the server's
// clarity_score remains the source of truth.
type ClarityBreakdown struct {
	ContrastScore float64
	FlatnessScore float64
	CentroidScore float64
	Composite     float64

	ContrastWeight float64
	FlatnessWeight float64
	CentroidWeight float64
}

// ComputeClarityBreakdown mirrors the server's component scoring so the
// report can show how the raw spectral metrics combine.
func ComputeClarityBreakdown(c *core.Clarity, instrumental bool) ClarityBreakdown {
	b := ClarityBreakdown{
		ContrastWeight: vocalContrastWeight,
		FlatnessWeight: vocalFlatnessWeight,
		CentroidWeight: vocalCentroidWeight,
	}
	if instrumental {
		b.ContrastWeight = instContrastWeight
		b.FlatnessWeight = instFlatnessWeight
		b.CentroidWeight = instCentroidWeight
	}

	b.ContrastScore = clamp100(c.SpectralContrast * 1000)
	b.FlatnessScore = clamp100((1 - c.SpectralFlatness) * 100)

	sr := assumedSampleRate
	if instrumental {
		b.CentroidScore = clamp100(100 - abs(c.SpectralCentroid-sr/4)/(sr/8))
	} else {
		// Vocal clarity sits around 1-5 kHz; aim a bit above the
		// instrumental center.
		center := sr/8 + sr/6
		b.CentroidScore = clamp100(100 - abs(c.SpectralCentroid-center)/(sr/10))
	}

	b.Composite = clamp100(
		b.ContrastScore*b.ContrastWeight +
			b.FlatnessScore*b.FlatnessWeight +
			b.CentroidScore*b.CentroidWeight)
	return b
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
