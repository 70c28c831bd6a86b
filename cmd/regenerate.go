package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mixanalyzer/render"
	"mixanalyzer/visuals"
)

func newRegenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regenerate",
		Short: "Recompute visualizations for an already-analyzed track",
	}
	cmd.AddCommand(newRegenerateStereoCmd(a))
	cmd.AddCommand(newRegenerateSpatialCmd(a))
	return cmd
}

func newRegenerateStereoCmd(a *app) *cobra.Command {
	var preview bool

	cmd := &cobra.Command{
		Use:   "stereo <file-id>",
		Short: "Regenerate the stereo field analysis and image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.RegenerateStereoField(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			render.RenderStereoRegen(os.Stdout, resp)

			if resp.StereoFieldURL == "" {
				return nil
			}
			loader := visuals.NewLoader(a.cfg, a.logger)
			path, state := loader.Fetch(cmd.Context(), visuals.Target{
				Name: "stereo_field",
				Src:  resp.StereoFieldURL,
			})
			if state == visuals.StateLoaded {
				fmt.Printf("  Saved: %s\n", path)
				if preview {
					if art, err := visuals.Preview(path, 0); err == nil {
						fmt.Println(art)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&preview, "preview", false, "show a terminal preview of the regenerated image")
	return cmd
}

func newRegenerateSpatialCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "spatial <file-id>",
		Short: "Regenerate the 3D spatial field visualization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.RegenerateSpatialField(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			render.RenderSpatialRegen(os.Stdout, resp)
			return nil
		},
	}
}
