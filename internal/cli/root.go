// Package cli wires Cobra subcommands to application dependencies; it
// is a thin controller with no business logic.
package cli

import (
	"log/slog"

	"github.com/HasibAlTahsin/norun/internal/config"
	"github.com/HasibAlTahsin/norun/internal/launcher"
	"github.com/HasibAlTahsin/norun/internal/logging"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command and registers all subcommands.
func NewRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "norun",
		Short: "Run Windows apps under wine or Proton, optionally sandboxed",
		// Let main handle fatal error rendering through structured logs.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				logging.SetLevel(slog.LevelDebug)
			} else {
				logging.SetLevel(slog.LevelInfo)
			}
		},
	}

	root.AddCommand(newAddCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newOpenCmd())
	root.AddCommand(newUninstallCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newDiagCmd())
	root.AddCommand(newLogsCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging (debug level)")

	return root
}

// newOrchestrator loads settings and builds the launcher stack every
// command shares.
func newOrchestrator() (*launcher.Orchestrator, *config.Config, *config.AppStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	apps := config.NewAppStore(cfg)
	return launcher.New(cfg, apps), cfg, apps, nil
}
