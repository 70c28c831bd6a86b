// Package progress maps coarse job stages and percentages onto the fixed
// twelve-step tracker shown during analysis, and keeps a bounded session log.
package progress

// StepID identifies one of the twelve fixed analysis steps.
type StepID string

const (
	StepFileUpload        StepID = "file-upload"
	StepLoadingAudio      StepID = "loading-audio"
	StepFrequencyAnalysis StepID = "frequency-analysis"
	StepDynamicsAnalysis  StepID = "dynamics-analysis"
	StepStereoField       StepID = "stereo-field"
	StepClarityAnalysis   StepID = "clarity-analysis"
	StepHarmonicAnalysis  StepID = "harmonic-analysis"
	StepTransientAnalysis StepID = "transient-analysis"
	StepSpatialAnalysis   StepID = "spatial-analysis"
	StepGeneratingVisuals StepID = "generating-visuals"
	StepAIProcessing      StepID = "ai-processing"
	StepFinalizing        StepID = "finalizing"
)

// StepOrder is the fixed display order. Transitions are monotonic within one
// job: a step never regresses from completed.
var StepOrder = []StepID{
	StepFileUpload,
	StepLoadingAudio,
	StepFrequencyAnalysis,
	StepDynamicsAnalysis,
	StepStereoField,
	StepClarityAnalysis,
	StepHarmonicAnalysis,
	StepTransientAnalysis,
	StepSpatialAnalysis,
	StepGeneratingVisuals,
	StepAIProcessing,
	StepFinalizing,
}

// stepTitles are the human-readable labels drawn in the tracker.
var stepTitles = map[StepID]string{
	StepFileUpload:        "File Upload",
	StepLoadingAudio:      "Audio Decoding",
	StepFrequencyAnalysis: "Frequency Analysis",
	StepDynamicsAnalysis:  "Dynamics Analysis",
	StepStereoField:       "Stereo Field",
	StepClarityAnalysis:   "Clarity Analysis",
	StepHarmonicAnalysis:  "Harmonic Analysis",
	StepTransientAnalysis: "Transient Analysis",
	StepSpatialAnalysis:   "3D Spatial Analysis",
	StepGeneratingVisuals: "Generating Visualizations",
	StepAIProcessing:      "AI Insights",
	StepFinalizing:        "Finalizing",
}

// StepState is the lifecycle state of one step.
type StepState string

const (
	StateWaiting    StepState = "waiting"
	StateInProgress StepState = "in-progress"
	StateCompleted  StepState = "completed"
)

// Stage names, in job order. A stage compares "later" by its index here.
const (
	StageUploading   = "uploading"
	StageAnalyzing   = "analyzing"
	StageVisualizing = "visualizing"
	StageAIAnalysis  = "ai analysis"
	StageCompleted   = "completed"
)

var stageOrder = []string{StageUploading, StageAnalyzing, StageVisualizing, StageAIAnalysis, StageCompleted}

// stageIndex returns a stage's position in the job order, or -1 for stage
// names the server invented (those update text but never drive the tracker).
func stageIndex(stage string) int {
	for i, s := range stageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}

// analyzingThresholds drives the fine analysis steps from the percentage
// while in the analyzing stage. This is a simulated timeline; server-supplied
// stages past analyzing override it.
var analyzingThresholds = []struct {
	below float64
	step  StepID
}{
	{25, StepLoadingAudio},
	{30, StepFrequencyAnalysis},
	{35, StepDynamicsAnalysis},
	{45, StepStereoField},
	{55, StepClarityAnalysis},
	{65, StepHarmonicAnalysis},
	{80, StepTransientAnalysis},
	{101, StepSpatialAnalysis},
}

// analyzingStep maps a percentage to the fine step active at that point.
func analyzingStep(pct float64) StepID {
	for _, t := range analyzingThresholds {
		if pct < t.below {
			return t.step
		}
	}
	return StepSpatialAnalysis
}

// activeStepForStage is the step marked in-progress on entering a stage.
var activeStepForStage = map[string]StepID{
	StageUploading:   StepFileUpload,
	StageAnalyzing:   StepLoadingAudio,
	StageVisualizing: StepGeneratingVisuals,
	StageAIAnalysis:  StepAIProcessing,
	StageCompleted:   StepFinalizing,
}

func stepIndex(id StepID) int {
	for i, s := range StepOrder {
		if s == id {
			return i
		}
	}
	return -1
}
