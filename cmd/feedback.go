package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mixanalyzer/core"
	"mixanalyzer/events"
)

func newFeedbackCmd(a *app) *cobra.Command {
	var fb core.FeedbackRequest

	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Send feedback about an analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			if fb.Rating < 1 || fb.Rating > 5 {
				return fmt.Errorf("--rating must be between 1 and 5")
			}
			if fb.Message == "" {
				return fmt.Errorf("--message is required")
			}
			if fb.Email != "" && !fb.Consent {
				return fmt.Errorf("--consent is required when providing an email address")
			}

			resp, err := a.client.SendFeedback(cmd.Context(), fb)
			if err != nil {
				return err
			}
			if !resp.Success {
				msg := resp.Error
				if msg == "" {
					msg = "feedback was not accepted"
				}
				return &core.APIError{Op: "feedback", Message: msg}
			}

			a.bus.Publish(events.Event{Name: events.FeedbackSent,
				Fields: map[string]interface{}{"rating": fb.Rating, "type": fb.FeedbackType}})
			fmt.Println("Thanks, your feedback was sent.")
			return nil
		},
	}

	cmd.Flags().StringVar(&fb.Email, "email", "", "contact email (optional)")
	cmd.Flags().IntVar(&fb.Rating, "rating", 0, "rating from 1 to 5")
	cmd.Flags().StringVar(&fb.FeedbackType, "type", "general", "feedback type (general, bug, feature)")
	cmd.Flags().StringVar(&fb.Message, "message", "", "feedback text")
	cmd.Flags().BoolVar(&fb.Consent, "consent", false, "consent to being contacted about this feedback")
	cmd.MarkFlagRequired("rating")
	cmd.MarkFlagRequired("message")
	return cmd
}
