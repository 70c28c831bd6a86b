package analysis

import (
	"math"
	"testing"

	"mixanalyzer/core"
)

func TestComputeClarityBreakdown(t *testing.T) {
	tests := []struct {
		name         string
		clarity      core.Clarity
		instrumental bool
		wantContrast float64
		wantFlatness float64
	}{
		{
			name: "instrumental weights",
			clarity: core.Clarity{
				SpectralContrast: 0.045,
				SpectralFlatness: 0.2,
				SpectralCentroid: 11025, // sr/4 at 44.1k, ideal instrumental
			},
			instrumental: true,
			wantContrast: 45,
			wantFlatness: 80,
		},
		{
			name: "vocal weights",
			clarity: core.Clarity{
				SpectralContrast: 0.2, // clamps at 100
				SpectralFlatness: 0.5,
				SpectralCentroid: 2000,
			},
			wantContrast: 100,
			wantFlatness: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ComputeClarityBreakdown(&tt.clarity, tt.instrumental)

			if !almostEqual(b.ContrastScore, tt.wantContrast) {
				t.Errorf("contrast score = %v, want %v", b.ContrastScore, tt.wantContrast)
			}
			if !almostEqual(b.FlatnessScore, tt.wantFlatness) {
				t.Errorf("flatness score = %v, want %v", b.FlatnessScore, tt.wantFlatness)
			}
			if b.CentroidScore < 0 || b.CentroidScore > 100 {
				t.Errorf("centroid score = %v, out of range", b.CentroidScore)
			}

			wantComposite := b.ContrastScore*b.ContrastWeight +
				b.FlatnessScore*b.FlatnessWeight +
				b.CentroidScore*b.CentroidWeight
			if !almostEqual(b.Composite, wantComposite) {
				t.Errorf("composite = %v, want %v", b.Composite, wantComposite)
			}

			sum := b.ContrastWeight + b.FlatnessWeight + b.CentroidWeight
			if !almostEqual(sum, 1) {
				t.Errorf("weights sum to %v, want 1", sum)
			}
		})
	}
}

func TestInstrumentalCentroidIdeal(t *testing.T) {
	b := ComputeClarityBreakdown(&core.Clarity{SpectralCentroid: assumedSampleRate / 4}, true)
	if !almostEqual(b.CentroidScore, 100) {
		t.Errorf("centroid at sr/4 scored %v, want 100", b.CentroidScore)
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
