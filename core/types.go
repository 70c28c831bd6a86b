// Package core provides shared types, configuration, and small utilities for
// the mix analyzer client.
package core

// JobState is the lifecycle state reported by the analysis server for a
// long-running job.
type JobState string

const (
	JobProcessing JobState = "processing"
	JobStarted    JobState = "started"
	JobCompleted  JobState = "completed"
	JobError      JobState = "error"
)

// Terminal reports true if the state is one the poller stops on.
func (s JobState) Terminal() bool {
	return s == JobCompleted || s == JobError
}

// JobStatus is one poll's worth of server-reported job state. It is consumed
// once and discarded; the client keeps no status history.
type JobStatus struct {
	Status   JobState `json:"status"`
	Progress *float64 `json:"progress,omitempty"`
	Stage    string   `json:"stage,omitempty"`
	Message  string   `json:"message,omitempty"`

	// Results is populated when Status is "completed" and the server chose
	// to inline the final payload with the status response.
	Results *AnalysisResult `json:"results,omitempty"`
}

// UploadRequest describes one file upload. Ephemeral: owned by the caller
// until the HTTP call resolves.
type UploadRequest struct {
	Path           string
	IsInstrumental bool
}

// UploadResponse is the server's answer to POST /upload.
type UploadResponse struct {
	Filename  string          `json:"filename"`
	Results   *AnalysisResult `json:"results"`
	FromCache bool            `json:"from_cache,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// BandNames is the fixed ordered set of frequency bands the server reports
// energy for. Order matters for chart rendering.
var BandNames = []string{"sub_bass", "bass", "low_mids", "mids", "high_mids", "highs", "air"}

// AnalysisResult is the full payload describing one completed analysis.
// Every category is optional except OverallScore; consumers must degrade to
// explicit unavailable text for absent categories rather than fail.
type AnalysisResult struct {
	OverallScore     float64           `json:"overall_score"`
	FrequencyBalance *FrequencyBalance `json:"frequency_balance,omitempty"`
	DynamicRange     *DynamicRange     `json:"dynamic_range,omitempty"`
	StereoField      *StereoField      `json:"stereo_field,omitempty"`
	Clarity          *Clarity          `json:"clarity,omitempty"`
	Transients       *Transients       `json:"transients,omitempty"`
	HarmonicContent  *HarmonicContent  `json:"harmonic_content,omitempty"`
	Spatial          *Spatial          `json:"3d_spatial,omitempty"`
	Visualizations   *Visualizations   `json:"visualizations,omitempty"`
	AIInsights       *AIInsights       `json:"ai_insights,omitempty"`
}

// FrequencyBalance describes energy distribution across the seven bands.
type FrequencyBalance struct {
	BalanceScore float64            `json:"balance_score"`
	BandEnergy   map[string]float64 `json:"band_energy"`
	Analysis     []string           `json:"analysis"`
}

// DynamicRange describes loudness dynamics. All dB values are formatted to
// one decimal place in the report.
type DynamicRange struct {
	DynamicRangeScore float64  `json:"dynamic_range_score"`
	DynamicRangeDB    float64  `json:"dynamic_range_db"`
	CrestFactorDB     float64  `json:"crest_factor_db"`
	PLR               float64  `json:"plr"`
	Analysis          []string `json:"analysis"`
}

// StereoField describes stereo width and phase relationships.
type StereoField struct {
	WidthScore  float64  `json:"width_score"`
	PhaseScore  float64  `json:"phase_score"`
	Correlation float64  `json:"correlation"`
	MidRatio    float64  `json:"mid_ratio"`
	SideRatio   float64  `json:"side_ratio"`
	Analysis    []string `json:"analysis"`
}

// Clarity describes spectral clarity metrics. The component breakdown shown
// in the report is recomputed client-side from these raw metrics.
type Clarity struct {
	ClarityScore     float64  `json:"clarity_score"`
	SpectralContrast float64  `json:"spectral_contrast"`
	SpectralFlatness float64  `json:"spectral_flatness"`
	SpectralCentroid float64  `json:"spectral_centroid"`
	Analysis         []string `json:"analysis"`
}

// Transients describes attack/percussion characteristics, plus an optional
// per-window energy series for the sparkline chart.
type Transients struct {
	TransientsScore  float64   `json:"transients_score"`
	AttackTime       float64   `json:"attack_time"`
	TransientDensity float64   `json:"transient_density"`
	PercussionEnergy float64   `json:"percussion_energy"`
	TransientData    []float64 `json:"transient_data,omitempty"`
	Analysis         []string  `json:"analysis"`
}

// HarmonicContent describes key and harmonic structure.
type HarmonicContent struct {
	Key                string   `json:"key"`
	HarmonicComplexity float64  `json:"harmonic_complexity"`
	KeyConsistency     float64  `json:"key_consistency"`
	ChordChangesPerMin float64  `json:"chord_changes_per_minute"`
	Analysis           []string `json:"analysis"`
}

// Spatial describes 3D spatial placement scores.
type Spatial struct {
	HeightScore float64  `json:"height_score"`
	DepthScore  float64  `json:"depth_score"`
	WidthScore  float64  `json:"width_score"`
	Analysis    []string `json:"analysis"`
}

// Visualizations holds server-side rendered image URLs. Each field is
// optional and resolved independently; a missing one must not block the rest.
type Visualizations struct {
	Waveform    string `json:"waveform,omitempty"`
	Spectrogram string `json:"spectrogram,omitempty"`
	Spectrum    string `json:"spectrum,omitempty"`
	Chromagram  string `json:"chromagram,omitempty"`
	StereoField string `json:"stereo_field,omitempty"`
}

// AIInsights is the AI-generated prose sub-record.
type AIInsights struct {
	Summary                    string   `json:"summary"`
	GenreContext               string   `json:"genre_context,omitempty"`
	SubgenreContext            string   `json:"subgenre_context,omitempty"`
	Strengths                  []string `json:"strengths"`
	Weaknesses                 []string `json:"weaknesses"`
	Suggestions                []string `json:"suggestions"`
	ReferenceTracks            []string `json:"reference_tracks,omitempty"`
	ProcessingRecommendations  []string `json:"processing_recommendations,omitempty"`
	TranslationRecommendations []string `json:"translation_recommendations,omitempty"`
	ModelUsed                  string   `json:"model_used,omitempty"`
	Error                      string   `json:"error,omitempty"`
}

// FeedbackRequest is the body of POST /api/feedback.
type FeedbackRequest struct {
	Email        string `json:"email"`
	Rating       int    `json:"rating"`
	FeedbackType string `json:"feedback_type"`
	Message      string `json:"message"`
	Consent      bool   `json:"consent"`
}

// FeedbackResponse is the server's answer to POST /api/feedback.
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// StereoRegenResponse is the answer to POST /regenerate_stereo_field/:fileId.
type StereoRegenResponse struct {
	Success           bool     `json:"success"`
	StereoFieldURL    string   `json:"stereo_field_url"`
	IsStereo          bool     `json:"is_stereo"`
	ChannelsIdentical *bool    `json:"channels_identical"`
	Correlation       *float64 `json:"correlation"`
	Error             string   `json:"error,omitempty"`
}

// SpatialRegenResponse is the answer to GET /api/regenerate_spatial_field/:fileId.
type SpatialRegenResponse struct {
	Success         bool   `json:"success"`
	InteractivePath string `json:"interactive_path,omitempty"`
	ImagePath       string `json:"image_path,omitempty"`
	Error           string `json:"error,omitempty"`
}

// DeleteRequest is the body of POST /api/delete-track.
type DeleteRequest struct {
	FileID string `json:"fileId"`
}

// DeleteResponse is the answer to POST /api/delete-track.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
