// Package main is the entry point for the norun binary.
// It delegates immediately to the CLI command tree.
package main

import (
	"context"
	"os"

	"github.com/HasibAlTahsin/norun/internal/cli"
	"github.com/HasibAlTahsin/norun/internal/logging"
)

func main() {
	if err := cli.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		logging.Logger().Error("fatal error", "err", err)
		os.Exit(cli.ExitCodeFor(err))
	}
}
