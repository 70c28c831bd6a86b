// Package cmd wires the mixanalyzer CLI commands to the client packages.
package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"mixanalyzer/core"
	"mixanalyzer/events"
	"mixanalyzer/history"
	"mixanalyzer/logging"
	"mixanalyzer/mixapi"
)

// app holds everything a command needs, built once in PersistentPreRunE and
// torn down in PersistentPostRun. Commands receive it explicitly; there are
// no package-level instances.
type app struct {
	cfg    *core.Config
	logger *logging.Logger
	client *mixapi.Client
	bus    *events.Bus

	detachAnalytics func()
}

// store opens the local history database on demand. Callers close it.
func (a *app) store() (*history.Store, error) {
	return history.Open(a.cfg.HistoryDBPath)
}

func (a *app) shutdown() {
	if a.detachAnalytics != nil {
		a.detachAnalytics()
	}
	if a.logger != nil {
		a.logger.Sync()
	}
}

// NewRootCmd builds the mixanalyzer command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "mixanalyzer",
		Short: "Analyze audio mixes through a remote mix analysis server",
		Long: `Mixanalyzer uploads an audio file to a mix analysis server, follows the
long-running analysis job with a live progress tracker, and renders the
resulting report (frequency balance, dynamics, stereo field, clarity,
transients, harmonics, 3D spatial placement, AI-generated insights)
directly in the terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env if present; a missing file is fine.
			_ = godotenv.Load()

			cfg, err := core.LoadConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewLogger(cfg.DevMode, cfg.LogFilePath)
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.logger = logger
			a.client = mixapi.NewClient(cfg, logger)
			a.bus = events.NewBus()
			a.detachAnalytics = events.AttachAnalytics(a.bus, logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.shutdown()
		},
	}

	root.AddCommand(newAnalyzeCmd(a))
	root.AddCommand(newStatusCmd(a))
	root.AddCommand(newRegenerateCmd(a))
	root.AddCommand(newFeedbackCmd(a))
	root.AddCommand(newDeleteCmd(a))
	root.AddCommand(newHistoryCmd(a))

	return root
}
