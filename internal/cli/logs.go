package cli

import (
	"fmt"
	"os"

	"github.com/HasibAlTahsin/norun/internal/hints"
	"github.com/spf13/cobra"
)

func newLogsCmd() *cobra.Command {
	var showHints bool

	cmd := &cobra.Command{
		Use:   "logs <name>",
		Short: "Show an app's log locations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, _, err := newOrchestrator()
			if err != nil {
				return err
			}
			name := args[0]
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Logs dir: %s\n", cfg.AppLogDir(name))
			runLog := cfg.RunLogPath(name)
			installLog := cfg.InstallLogPath(name)
			if _, err := os.Stat(runLog); err == nil {
				fmt.Fprintf(out, "Run log: %s\n", runLog)
			}
			if _, err := os.Stat(installLog); err == nil {
				fmt.Fprintf(out, "Install log: %s\n", installLog)
			}

			if showHints {
				// Prefer the run log; fall back to the install log.
				target := runLog
				if _, err := os.Stat(target); err != nil {
					target = installLog
				}
				summary, err := hints.Summarize(target)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, summary)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showHints, "hints", false, "Summarize the latest log and flag known failure signatures")

	return cmd
}
