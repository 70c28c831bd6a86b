package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mixanalyzer/events"
)

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <file-id>",
		Short: "Delete a track and its analysis from the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileID := args[0]

			if !yes && !confirm(fmt.Sprintf("Delete %q and all its analysis data?", fileID)) {
				fmt.Println("Aborted.")
				return nil
			}

			resp, err := a.client.DeleteTrack(cmd.Context(), fileID)
			if err != nil {
				return err
			}
			if !resp.Success {
				msg := resp.Message
				if msg == "" {
					msg = "the server declined to delete the track"
				}
				return fmt.Errorf("delete failed: %s", msg)
			}

			// Drop the local record too; a stale history entry pointing at a
			// deleted server track is just confusing.
			if store, err := a.store(); err == nil {
				defer store.Close()
				if err := store.Delete(cmd.Context(), fileID); err != nil {
					a.logger.Warn("failed to delete history record", zap.Error(err))
				}
			}

			a.bus.Publish(events.Event{Name: events.TrackDeleted, TrackID: fileID})
			if resp.Message != "" {
				fmt.Println(resp.Message)
			} else {
				fmt.Printf("Deleted %s.\n", fileID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
