package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <name>",
		Short: "Remove an app, its prefix, logs, and shortcut",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, _, apps, err := newOrchestrator()
			if err != nil {
				return err
			}
			name := args[0]

			app, err := apps.Load(name)
			if err != nil {
				return err
			}
			if app == nil {
				return fmt.Errorf("app %q not found", name)
			}

			if err := orch.Uninstall(app); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uninstalled: %s\n", name)
			return nil
		},
	}
}
