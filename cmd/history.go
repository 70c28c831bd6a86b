package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mixanalyzer/core"
	"mixanalyzer/history"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List analyses recorded on this machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No analyses recorded yet. Run: mixanalyzer analyze <file>")
				return nil
			}

			printHistory(records)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries to show")
	return cmd
}

func printHistory(records []history.Record) {
	header := color.New(color.Bold)
	header.Printf("%-32s %-10s %-7s %s\n", "TRACK", "STATUS", "SCORE", "WHEN")

	for _, rec := range records {
		score := "-"
		if rec.Status == history.StatusCompleted {
			score = fmt.Sprintf("%.0f", rec.OverallScore)
		}
		name := rec.Filename
		if len(name) > 32 {
			name = name[:29] + "..."
		}
		age := core.FormatDuration(time.Since(rec.UpdatedAt)) + " ago"

		line := fmt.Sprintf("%-32s %-10s %-7s %s", name, rec.Status, score, age)
		if rec.Status == history.StatusPending {
			color.New(color.FgYellow).Println(line)
		} else {
			fmt.Println(line)
		}
	}
}
