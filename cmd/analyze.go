package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mixanalyzer/analysis"
	"mixanalyzer/core"
	"mixanalyzer/events"
	"mixanalyzer/progress"
	"mixanalyzer/render"
	"mixanalyzer/visuals"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		instrumental bool
		noVisuals    bool
		visualsDir   string
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Upload an audio file and run the full mix analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if visualsDir != "" {
				a.cfg.VisualsDir = visualsDir
			}
			return runAnalyze(cmd.Context(), a, args[0], instrumental, !noVisuals)
		},
	}

	cmd.Flags().BoolVar(&instrumental, "instrumental", false, "analyze as an instrumental track (no vocals)")
	cmd.Flags().BoolVar(&noVisuals, "no-visuals", false, "skip downloading visualization images")
	cmd.Flags().StringVar(&visualsDir, "visuals-dir", "", "directory for downloaded visualizations")
	return cmd
}

func runAnalyze(ctx context.Context, a *app, path string, instrumental, withVisuals bool) error {
	// Validation happens before anything touches the network; a bad file
	// never produces a request.
	if verr := core.ValidateUpload(path, a.cfg.MaxFileSize); verr != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: %s\n", verr.Error())
		return verr
	}

	presenter := progress.NewPresenter(os.Stdout, a.bus)
	presenter.Reset(filepath.Base(path))
	presenter.Log("Preparing your audio file...")
	a.bus.Publish(events.Event{Name: events.UploadStarted, TrackID: filepath.Base(path)})

	resp, err := uploadWithProgress(ctx, a, presenter, path, instrumental)
	if err != nil {
		return handleUploadError(a, path, err)
	}

	trackID := resp.Filename
	presenter.Reset(trackID)
	presenter.ReportStage(progress.StageUploading, 100)
	presenter.Log("Upload complete: " + trackID)
	a.bus.Publish(events.Event{Name: events.UploadCompleted, TrackID: trackID,
		Fields: map[string]interface{}{"from_cache": resp.FromCache}})

	var store historyStore
	if s, err := a.store(); err != nil {
		a.logger.Warn("history store unavailable", zap.Error(err))
	} else {
		defer s.Close()
		if err := s.MarkPending(ctx, trackID, filepath.Base(path)); err != nil {
			a.logger.Warn("failed to record pending analysis", zap.Error(err))
		}
		store = s
	}

	// Cached or synchronously analyzed uploads come back with the payload
	// inline; no polling needed.
	if resp.Results != nil {
		presenter.ReportStage(progress.StageCompleted, 100)
		return finishAnalysis(ctx, a, store, trackID, resp.Results, render.Options{
			Filename:     trackID,
			Instrumental: instrumental,
			FromCache:    resp.FromCache,
		}, withVisuals)
	}

	poller := analysis.NewPoller(a.client, a.cfg, a.logger)
	a.bus.Publish(events.Event{Name: events.AnalysisStarted, TrackID: trackID})

	var (
		final    *core.AnalysisResult
		pollErr  error
		resolved bool
	)
	err = poller.Run(ctx, trackID, analysis.Callbacks{
		OnProgress: presenter.ReportStage,
		OnComplete: func(results *core.AnalysisResult) {
			resolved = true
			final = results
		},
		OnError: func(err error) {
			resolved = true
			pollErr = err
		},
	})
	if err != nil {
		return handleUploadError(a, trackID, err)
	}
	if pollErr != nil {
		a.bus.Publish(events.Event{Name: events.AnalysisFailed, TrackID: trackID,
			Fields: map[string]interface{}{"error": pollErr.Error()}})
		color.New(color.FgRed).Fprintf(os.Stderr, "Analysis failed: %s\n", pollErr.Error())
		return pollErr
	}
	if !resolved {
		// Polling ceiling: the job continues server-side.
		fmt.Printf("\nThe analysis is taking longer than expected and continues on the server.\n")
		fmt.Printf("Check back later with: mixanalyzer status %s\n", trackID)
		return nil
	}

	if final == nil {
		// Completed status without an inline payload; fetch it.
		status, err := a.client.StartAnalysis(ctx, trackID)
		if err != nil {
			return err
		}
		final = status.Results
	}
	if final == nil {
		return &core.APIError{Op: "analyze", Message: "server reported completion without results"}
	}

	presenter.ReportStage(progress.StageCompleted, 100)
	return finishAnalysis(ctx, a, store, trackID, final, render.Options{
		Filename:     trackID,
		Instrumental: instrumental,
	}, withVisuals)
}

// uploadWithProgress streams the file while driving the uploading stage from
// byte progress.
func uploadWithProgress(ctx context.Context, a *app, presenter *progress.Presenter, path string, instrumental bool) (*core.UploadResponse, error) {
	var lastPct float64
	return a.client.Upload(ctx, core.UploadRequest{Path: path, IsInstrumental: instrumental},
		func(info core.TransferInfo) {
			pct := info.Percent
			if pct-lastPct >= 5 || pct >= 100 {
				lastPct = pct
				presenter.ReportStage(progress.StageUploading, pct)
			}
		})
}

// finishAnalysis renders the report, persists the result, publishes the
// score, and resolves visualizations.
func finishAnalysis(ctx context.Context, a *app, store historyStore, trackID string, result *core.AnalysisResult, opts render.Options, withVisuals bool) error {
	render.Render(os.Stdout, result, opts)

	a.bus.Publish(events.Event{Name: events.AnalysisCompleted, TrackID: trackID,
		Fields: map[string]interface{}{"overall_score": result.OverallScore}})
	a.bus.Publish(events.Event{Name: events.ScoreChanged, TrackID: trackID,
		Fields: map[string]interface{}{"score": result.OverallScore}})

	if store != nil {
		if err := store.SaveResult(ctx, trackID, opts.Filename, opts.FromCache, result); err != nil {
			a.logger.Warn("failed to save analysis to history", zap.Error(err))
		}
	}

	if !withVisuals || result.Visualizations == nil {
		return nil
	}

	loader := visuals.NewLoader(a.cfg, a.logger)
	loader.FetchAll(ctx, result.Visualizations)
	if err := loader.WaitLoaded(ctx); err != nil {
		color.New(color.FgYellow).Fprintf(os.Stderr, "%s\n", err.Error())
	}

	fmt.Printf("\nVisualizations saved to %s\n", a.cfg.VisualsDir)
	if path, ok := loader.Path("waveform"); ok {
		if preview, err := visuals.Preview(path, 0); err == nil {
			fmt.Println(preview)
		}
	}
	return nil
}

// historyStore is the slice of history.Store the analyze flow uses; nil when
// the local database could not be opened.
type historyStore interface {
	SaveResult(ctx context.Context, trackID, filename string, fromCache bool, result *core.AnalysisResult) error
}

// handleUploadError maps the error taxonomy to terminal behavior: timeouts
// are non-fatal ("continues server-side"), everything else is terminal.
func handleUploadError(a *app, trackID string, err error) error {
	var timeoutErr *core.TimeoutError
	if errors.As(err, &timeoutErr) {
		fmt.Printf("\nThe request timed out, but the analysis likely continues on the server.\n")
		fmt.Printf("Check back later with: mixanalyzer status %s\n", trackID)
		return nil
	}

	var transportErr *core.TransportError
	if errors.As(err, &transportErr) {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: %s\n", transportErr.Error())
		return err
	}

	color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: %s\n", err.Error())
	return err
}
