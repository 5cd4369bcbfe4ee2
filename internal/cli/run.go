package cli

import (
	"fmt"

	"github.com/HasibAlTahsin/norun/internal/launcher"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var (
		exe         string
		desktopSpec string
	)

	cmd := &cobra.Command{
		Use:   "run <name>",
		Short: "Run an installed app",
		Long:  "Run an installed app. Without --exe the last saved executable is used, falling back to autodetection.",
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
				return fmt.Errorf("app %q not found (use: norun add ...)", name)
			}

			desktop, err := launcher.ParseDesktop(desktopSpec)
			if err != nil {
				return err
			}

			_, err = orch.Run(cmd.Context(), app, exe, desktop)
			return err
		},
	}

	cmd.Flags().StringVar(&exe, "exe", "", `Windows path like C:\Program Files\App\app.exe`)
	cmd.Flags().StringVar(&desktopSpec, "desktop", "", "Run inside a wine virtual desktop, e.g. 1024x768")

	return cmd
}
