package render

import (
	"fmt"
	"io"

	"mixanalyzer/analysis"
	"mixanalyzer/core"
)

// Missing-category sentinels. Every absent category renders its fields as
// NotAvailable plus one of these lines; nothing from a previous render can
// leak through because the report is rebuilt whole each time.
const (
	frequencyUnavailable = "Frequency balance analysis not available for this track."
	dynamicsUnavailable  = "Dynamic range analysis not available for this track."
	stereoUnavailable    = "Stereo field analysis not available for this track."
	clarityUnavailable   = "Clarity analysis not available for this track."
	transientUnavailable = "Transient analysis not available for this track."
	harmonicUnavailable  = "Harmonic analysis not available for this track."
	spatialUnavailable   = "3D spatial analysis not available for this track."
)

// Options carries per-render context that is not part of the payload.
type Options struct {
	Filename     string
	Instrumental bool
	FromCache    bool
}

// Render writes the complete report for one analysis. Calling it again with
// a different payload produces output identical to rendering that payload
// alone.
func Render(w io.Writer, result *core.AnalysisResult, opts Options) {
	renderHeader(w, result, opts)
	renderFrequencyBalance(w, result.FrequencyBalance)
	renderDynamicRange(w, result.DynamicRange)
	renderStereoField(w, result.StereoField)
	renderClarity(w, result.Clarity, opts.Instrumental)
	renderTransients(w, result.Transients)
	renderHarmonicContent(w, result.HarmonicContent)
	renderSpatial(w, result.Spatial)
	renderVisualizations(w, result.Visualizations)
	renderAIInsights(w, result.AIInsights)
	renderFrequencyView(w, result)
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, divider(len(title)))
}

func divider(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = '-'
	}
	return string(out)
}

func renderList(w io.Writer, items []string, empty string) {
	if len(items) == 0 {
		fmt.Fprintf(w, "  - %s\n", empty)
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func renderHeader(w io.Writer, result *core.AnalysisResult, opts Options) {
	name := opts.Filename
	if name == "" {
		name = "(unnamed track)"
	}
	fmt.Fprintf(w, "%s", name)
	if opts.Instrumental {
		fmt.Fprint(w, " [Instrumental]")
	}
	if opts.FromCache {
		fmt.Fprint(w, " (cached)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Overall score: %s / 100\n", formatScore(result.OverallScore))
}

func renderFrequencyBalance(w io.Writer, fb *core.FrequencyBalance) {
	section(w, "Frequency Balance")
	if fb == nil {
		fmt.Fprintf(w, "  Score: %s\n", NotAvailable)
		fmt.Fprintf(w, "  - %s\n", frequencyUnavailable)
		return
	}

	fmt.Fprintf(w, "  Score: %s\n", formatScore(fb.BalanceScore))
	for _, band := range core.BandNames {
		if energy, ok := fb.BandEnergy[band]; ok {
			writeBar(w, prettyBandLabel(band), energy)
		}
	}
	renderList(w, fb.Analysis, "No frequency analysis available.")
}

func renderDynamicRange(w io.Writer, dr *core.DynamicRange) {
	section(w, "Dynamic Range")
	if dr == nil {
		fmt.Fprintf(w, "  Score: %s\n", NotAvailable)
		fmt.Fprintf(w, "  Dynamic range: %s\n", NotAvailable)
		fmt.Fprintf(w, "  Crest factor:  %s\n", NotAvailable)
		fmt.Fprintf(w, "  PLR:           %s\n", NotAvailable)
		fmt.Fprintf(w, "  - %s\n", dynamicsUnavailable)
		return
	}

	fmt.Fprintf(w, "  Score: %s\n", formatScore(dr.DynamicRangeScore))
	fmt.Fprintf(w, "  Dynamic range: %s\n", formatDB(dr.DynamicRangeDB))
	fmt.Fprintf(w, "  Crest factor:  %s\n", formatDB(dr.CrestFactorDB))
	fmt.Fprintf(w, "  PLR:           %s\n", formatDB(dr.PLR))
	renderList(w, dr.Analysis, "No dynamics analysis available.")
}

func renderStereoField(w io.Writer, sf *core.StereoField) {
	section(w, "Stereo Field")
	if sf == nil {
		fmt.Fprintf(w, "  Width score: %s\n", NotAvailable)
		fmt.Fprintf(w, "  Phase score: %s\n", NotAvailable)
		fmt.Fprintf(w, "  Correlation: %s\n", NotAvailable)
		fmt.Fprintf(w, "  Mid/side:    %s\n", NotAvailable)
		fmt.Fprintf(w, "  - %s\n", stereoUnavailable)
		return
	}

	fmt.Fprintf(w, "  Width score: %s\n", formatScore(sf.WidthScore))
	fmt.Fprintf(w, "  Phase score: %s\n", formatScore(sf.PhaseScore))
	fmt.Fprintf(w, "  Correlation: %s\n", formatCorrelation(sf.Correlation))
	fmt.Fprintf(w, "  Mid/side:    %s\n", formatMidSide(sf.MidRatio, sf.SideRatio))
	renderList(w, sf.Analysis, "No stereo analysis available.")
}

func renderClarity(w io.Writer, c *core.Clarity, instrumental bool) {
	section(w, "Clarity")
	if c == nil {
		fmt.Fprintf(w, "  Score: %s\n", NotAvailable)
		fmt.Fprintf(w, "  Spectral contrast: %s\n", NotAvailable)
		fmt.Fprintf(w, "  Spectral flatness: %s\n", NotAvailable)
		fmt.Fprintf(w, "  Spectral centroid: %s\n", NotAvailable)
		fmt.Fprintf(w, "  - %s\n", clarityUnavailable)
		return
	}

	fmt.Fprintf(w, "  Score: %s\n", formatScore(c.ClarityScore))
	fmt.Fprintf(w, "  Spectral contrast: %s\n", formatRatio(c.SpectralContrast))
	fmt.Fprintf(w, "  Spectral flatness: %s\n", formatFlatness(c.SpectralFlatness))
	fmt.Fprintf(w, "  Spectral centroid: %s\n", formatHz(c.SpectralCentroid))

	// Component breakdown, recomputed for display. The server's composite
	// above stays the source of truth.
	b := analysis.ComputeClarityBreakdown(c, instrumental)
	fmt.Fprintln(w, "  Components:")
	writeBar(w, "Contrast", b.ContrastScore)
	writeBar(w, "Flatness", b.FlatnessScore)
	writeBar(w, "Centroid", b.CentroidScore)

	renderList(w, c.Analysis, "No clarity analysis available.")
}

func renderTransients(w io.Writer, tr *core.Transients) {
	section(w, "Transients")
	if tr == nil {
		fmt.Fprintf(w, "  Score: %s\n", NotAvailable)
		fmt.Fprintf(w, "  Attack time:       %s\n", NotAvailable)
		fmt.Fprintf(w, "  Transient density: %s\n", NotAvailable)
		fmt.Fprintf(w, "  Percussion energy: %s\n", NotAvailable)
		fmt.Fprintf(w, "  - %s\n", transientUnavailable)
		return
	}

	fmt.Fprintf(w, "  Score: %s\n", formatScore(tr.TransientsScore))
	fmt.Fprintf(w, "  Attack time:       %s\n", formatMs(tr.AttackTime))
	fmt.Fprintf(w, "  Transient density: %s\n", formatRatio(tr.TransientDensity))
	fmt.Fprintf(w, "  Percussion energy: %s\n", formatPercent(tr.PercussionEnergy))
	writeSparkline(w, tr.TransientData)
	renderList(w, tr.Analysis, "No transient analysis available.")
}

func renderHarmonicContent(w io.Writer, hc *core.HarmonicContent) {
	section(w, "Harmonic Content")
	if hc == nil {
		fmt.Fprintln(w, "  Key: Unknown")
		fmt.Fprintf(w, "  Harmonic complexity: %s\n", NotAvailable)
		fmt.Fprintf(w, "  Key consistency:     %s\n", NotAvailable)
		fmt.Fprintf(w, "  Chord changes:       %s\n", NotAvailable)
		fmt.Fprintf(w, "  - %s\n", harmonicUnavailable)
		return
	}

	key := hc.Key
	if key == "" {
		key = "Unknown"
	}
	fmt.Fprintf(w, "  Key: %s\n", key)
	fmt.Fprintf(w, "  Harmonic complexity: %s\n", formatPercent(hc.HarmonicComplexity))
	fmt.Fprintf(w, "  Key consistency:     %s\n", formatPercent(hc.KeyConsistency))
	fmt.Fprintf(w, "  Chord changes:       %s\n", formatChordChanges(hc.ChordChangesPerMin))
	renderList(w, hc.Analysis, "No harmonic analysis available.")
}

func renderSpatial(w io.Writer, sp *core.Spatial) {
	section(w, "3D Spatial")
	if sp == nil {
		fmt.Fprintf(w, "  Height score: %s\n", NotAvailable)
		fmt.Fprintf(w, "  Depth score:  %s\n", NotAvailable)
		fmt.Fprintf(w, "  Width score:  %s\n", NotAvailable)
		fmt.Fprintf(w, "  - %s\n", spatialUnavailable)
		return
	}

	fmt.Fprintf(w, "  Height score: %s\n", formatScore(sp.HeightScore))
	fmt.Fprintf(w, "  Depth score:  %s\n", formatScore(sp.DepthScore))
	fmt.Fprintf(w, "  Width score:  %s\n", formatScore(sp.WidthScore))
	renderList(w, sp.Analysis, "No spatial analysis available.")
}

func renderVisualizations(w io.Writer, v *core.Visualizations) {
	section(w, "Visualizations")
	entries := []struct {
		label string
		src   string
	}{
		{"Waveform", srcOrEmpty(v, func(v *core.Visualizations) string { return v.Waveform })},
		{"Spectrogram", srcOrEmpty(v, func(v *core.Visualizations) string { return v.Spectrogram })},
		{"Spectrum", srcOrEmpty(v, func(v *core.Visualizations) string { return v.Spectrum })},
		{"Chromagram", srcOrEmpty(v, func(v *core.Visualizations) string { return v.Chromagram })},
		{"Stereo field", srcOrEmpty(v, func(v *core.Visualizations) string { return v.StereoField })},
	}
	for _, e := range entries {
		if e.src == "" {
			fmt.Fprintf(w, "  %-12s %s\n", e.label+":", "not available")
			continue
		}
		fmt.Fprintf(w, "  %-12s %s\n", e.label+":", e.src)
	}
}

func srcOrEmpty(v *core.Visualizations, get func(*core.Visualizations) string) string {
	if v == nil {
		return ""
	}
	return get(v)
}

func renderAIInsights(w io.Writer, ai *core.AIInsights) {
	section(w, "AI Insights")
	if ai == nil {
		fmt.Fprintln(w, "  AI insights not available for this track.")
		return
	}
	if ai.Error != "" {
		fmt.Fprintf(w, "  ! %s\n", ai.Error)
	}

	if ai.Summary != "" {
		fmt.Fprintf(w, "  %s\n", ai.Summary)
	}
	genre := ai.GenreContext
	if genre == "" {
		genre = "No genre analysis available."
	}
	fmt.Fprintf(w, "  Genre: %s\n", genre)
	subgenre := ai.SubgenreContext
	if subgenre == "" {
		subgenre = "No subgenre analysis available."
	}
	fmt.Fprintf(w, "  Subgenre: %s\n", subgenre)

	fmt.Fprintln(w, "  Strengths:")
	renderList(w, ai.Strengths, "No strengths listed.")
	fmt.Fprintln(w, "  Weaknesses:")
	renderList(w, ai.Weaknesses, "No weaknesses listed.")
	fmt.Fprintln(w, "  Suggestions:")
	renderList(w, ai.Suggestions, "No suggestions provided.")
	fmt.Fprintln(w, "  Reference tracks:")
	renderList(w, ai.ReferenceTracks, "No specific reference tracks provided.")
	fmt.Fprintln(w, "  Processing recommendations:")
	renderList(w, ai.ProcessingRecommendations, "No specific processing recommendations provided.")
	fmt.Fprintln(w, "  Mix translation:")
	renderList(w, ai.TranslationRecommendations, "No mix translation recommendations provided.")

	if ai.ModelUsed != "" {
		fmt.Fprintf(w, "  Model: %s\n", ai.ModelUsed)
	}
}

func renderFrequencyView(w io.Writer, result *core.AnalysisResult) {
	section(w, "Frequency Focus")
	view := analysis.ExtractFrequencyView(result.AIInsights, result.FrequencyBalance)
	fmt.Fprintln(w, "  Issues:")
	renderList(w, view.Issues, analysis.NoFrequencyIssues)
	fmt.Fprintln(w, "  Recommendations:")
	renderList(w, view.Recommendations, analysis.NoFrequencyIssues)
}

// RenderStereoRegen writes the regenerated stereo-field summary. Correlation
// here is shown at four decimal places.
func RenderStereoRegen(w io.Writer, r *core.StereoRegenResponse) {
	section(w, "Regenerated Stereo Field")
	if r.StereoFieldURL != "" {
		fmt.Fprintf(w, "  Image: %s\n", r.StereoFieldURL)
	}
	fmt.Fprintf(w, "  Stereo source: %v\n", r.IsStereo)
	if r.ChannelsIdentical != nil {
		fmt.Fprintf(w, "  Channels identical: %v\n", *r.ChannelsIdentical)
	} else {
		fmt.Fprintf(w, "  Channels identical: %s\n", NotAvailable)
	}
	if r.Correlation != nil {
		fmt.Fprintf(w, "  Correlation: %s\n", formatCorrelationFine(*r.Correlation))
	} else {
		fmt.Fprintf(w, "  Correlation: %s\n", NotAvailable)
	}
}

// RenderSpatialRegen writes the regenerated spatial-field summary.
func RenderSpatialRegen(w io.Writer, r *core.SpatialRegenResponse) {
	section(w, "Regenerated 3D Spatial Field")
	if r.ImagePath != "" {
		fmt.Fprintf(w, "  Image: %s\n", r.ImagePath)
	}
	if r.InteractivePath != "" {
		fmt.Fprintf(w, "  Interactive: %s\n", r.InteractivePath)
	}
	if r.ImagePath == "" && r.InteractivePath == "" {
		fmt.Fprintln(w, "  No spatial visualization produced.")
	}
}
