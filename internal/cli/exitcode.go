package cli

import (
	"errors"

	"github.com/HasibAlTahsin/norun/internal/launcher"
)

// Exit codes surfaced to the shell.
const (
	ExitOK           = 0
	ExitUsage        = 2
	ExitNotFound     = 3
	ExitLaunchFailed = 10
)

// ExitCodeFor maps an error from the command tree to the CLI exit-code
// contract: 2 for bad usage or unknown apps, 3 for missing executables
// or tools, 10 for a child process that failed.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	var launchErr *launcher.LaunchError
	switch {
	case errors.As(err, &launchErr):
		return ExitLaunchFailed
	case errors.Is(err, launcher.ErrCommandNotFound),
		errors.Is(err, launcher.ErrInstallerNotFound),
		errors.Is(err, launcher.ErrNoGlobMatch),
		errors.Is(err, launcher.ErrNoExecutable),
		errors.Is(err, launcher.ErrSandboxUnavailable):
		return ExitNotFound
	default:
		return ExitUsage
	}
}
