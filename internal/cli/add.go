package cli

import (
	"fmt"

	"github.com/HasibAlTahsin/norun/internal/config"
	"github.com/HasibAlTahsin/norun/internal/logging"
	"github.com/HasibAlTahsin/norun/internal/profile"
	"github.com/HasibAlTahsin/norun/internal/shortcuts"
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	var (
		profileName    string
		runner         string
		sandboxMode    string
		bindExtra      string
		portable       bool
		sandboxed      bool
		sandboxInstall bool
	)

	cmd := &cobra.Command{
		Use:   "add <name> <installer>",
		Short: "Create an app, initialize its prefix, and run the installer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, cfg, _, err := newOrchestrator()
			if err != nil {
				return err
			}
			name, installer := args[0], args[1]

			// Flags not given explicitly fall back to configured defaults.
			if !cmd.Flags().Changed("profile") && cfg.Defaults.Profile != "" {
				profileName = cfg.Defaults.Profile
			}
			if !cmd.Flags().Changed("runner") && cfg.Defaults.Runner != "" {
				runner = cfg.Defaults.Runner
			}
			if !cmd.Flags().Changed("sandbox") {
				sandboxed = cfg.Sandbox.Enabled
			}
			if !cmd.Flags().Changed("sandbox-mode") && cfg.Sandbox.Mode != "" {
				sandboxMode = cfg.Sandbox.Mode
			}

			if runner == config.RunnerAuto {
				runner = profile.ChooseRunner(profileName, installer)
			}

			app, err := orch.CreateApp(name, profileName, runner, sandboxed, sandboxMode)
			if err != nil {
				return err
			}
			if bindExtra != "" {
				app.ExtraBinds = bindExtra
				if err := orch.Apps.Save(app); err != nil {
					return err
				}
			}
			if err := orch.InitPrefix(cmd.Context(), app); err != nil {
				return err
			}
			if err := orch.Install(cmd.Context(), app, installer, portable, sandboxInstall); err != nil {
				return err
			}

			shortcut := ""
			if appsDir, err := shortcuts.DefaultApplicationsDir(); err == nil {
				if path, err := shortcuts.Create(appsDir, name); err == nil {
					shortcut = path
				} else {
					logging.Logger().Warn("failed to create desktop shortcut", "app", name, "err", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"Installed. Runner=%s Sandbox=%t Mode=%s Portable=%t Shortcut: %s\n",
				runner, sandboxed, sandboxMode, portable, shortcut,
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&profileName, "profile", "p", "general", "Profile (general/dotnet/games)")
	cmd.Flags().StringVarP(&runner, "runner", "r", config.RunnerAuto, "Runner: auto|wine|proton")
	cmd.Flags().BoolVar(&portable, "portable", false, "Portable exe mode (copy exe into app dir)")
	cmd.Flags().BoolVar(&sandboxed, "sandbox", false, "Enable sandbox for runs")
	cmd.Flags().StringVar(&sandboxMode, "sandbox-mode", "full", "Sandbox mode for runs: full|strict")
	cmd.Flags().BoolVar(&sandboxInstall, "sandbox-install", false, "Sandbox the installer too (may break installers)")
	cmd.Flags().StringVar(&bindExtra, "bind-extra", "", `Extra bwrap bind flags kept for this app, e.g. "--bind /a /a --ro-bind /b /b"`)

	return cmd
}
