package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mixanalyzer/core"
	"mixanalyzer/render"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <track-id>",
		Short: "Check an analysis job and render the report if it finished",
		Long: `Queries the server for the current state of an analysis job. Jobs that
outlived the polling window of an earlier analyze run finish server-side;
this command picks up their results.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, a, args[0])
		},
	}
}

func runStatus(cmd *cobra.Command, a *app, trackID string) error {
	ctx := cmd.Context()

	status, err := a.client.GetStatus(ctx, trackID)
	if err != nil {
		return err
	}

	switch status.Status {
	case core.JobCompleted:
		results := status.Results
		if results == nil {
			// The status endpoint omits the payload; the start endpoint
			// inlines it for completed jobs.
			start, err := a.client.StartAnalysis(ctx, trackID)
			if err != nil {
				return err
			}
			results = start.Results
		}
		if results == nil {
			return &core.APIError{Op: "status", Message: "job completed but no results were returned"}
		}

		render.Render(os.Stdout, results, render.Options{Filename: trackID})

		if store, err := a.store(); err == nil {
			defer store.Close()
			if err := store.SaveResult(ctx, trackID, trackID, false, results); err != nil {
				a.logger.Warn("failed to save recovered result", zap.Error(err))
			}
		}
		return nil

	case core.JobError:
		msg := status.Message
		if msg == "" {
			msg = "analysis failed"
		}
		color.New(color.FgRed).Fprintf(os.Stderr, "Analysis failed: %s\n", msg)
		return &core.APIError{Op: "status", Message: msg}

	default:
		fmt.Printf("Track:  %s\n", trackID)
		fmt.Printf("Status: %s\n", status.Status)
		if status.Stage != "" {
			fmt.Printf("Stage:  %s\n", status.Stage)
		}
		if status.Progress != nil {
			fmt.Printf("Progress: %.0f%%\n", *status.Progress)
		}
		return nil
	}
}
