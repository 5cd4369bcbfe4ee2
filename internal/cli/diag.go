package cli

import (
	"fmt"

	"github.com/HasibAlTahsin/norun/internal/launcher"
	"github.com/HasibAlTahsin/norun/internal/sandbox"
	"github.com/spf13/cobra"
)

func newDiagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diag",
		Short: "Check required external tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, tool := range launcher.Doctor(sandbox.OSHost{}) {
				status := "MISSING"
				if tool.Available {
					status = "OK"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", tool.Name, status)
			}
			return nil
		},
	}
}
