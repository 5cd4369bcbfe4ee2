package cli

import (
	"fmt"

	"github.com/HasibAlTahsin/norun/internal/logging"
	"github.com/HasibAlTahsin/norun/internal/shortcuts"
	"github.com/spf13/cobra"
)

func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <installer>",
		Short: "Install a .exe/.msi as a new app with default settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, _, _, err := newOrchestrator()
			if err != nil {
				return err
			}

			app, err := orch.OpenInstaller(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			shortcut := ""
			if appsDir, err := shortcuts.DefaultApplicationsDir(); err == nil {
				if path, err := shortcuts.Create(appsDir, app.Name); err == nil {
					shortcut = path
				} else {
					logging.Logger().Warn("failed to create desktop shortcut", "app", app.Name, "err", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Installed. App: %s Shortcut: %s\n", app.Name, shortcut)
			return nil
		},
	}
}
