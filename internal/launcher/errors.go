package launcher

import (
	"errors"
	"fmt"
)

var (
	// ErrSandboxUnavailable means sandboxing was requested but the
	// isolation primitive is not installed on the host.
	ErrSandboxUnavailable = errors.New("sandbox requested but bubblewrap (bwrap) is not installed")
	// ErrCommandNotFound means an executable token could not be resolved
	// through the search path.
	ErrCommandNotFound = errors.New("command not found")
	// ErrInstallerNotFound means the resolved installer path does not exist.
	ErrInstallerNotFound = errors.New("installer file not found")
	// ErrNoGlobMatch means an installer pattern matched nothing.
	ErrNoGlobMatch = errors.New("no installer matched pattern")
	// ErrNoExecutable means no target was given, none was saved, and
	// autodetection found nothing.
	ErrNoExecutable = errors.New("no executable provided and autodetection found nothing")
)

// LaunchError reports a child process that exited non-zero. It is never
// retried: the child may have already mutated persistent state.
type LaunchError struct {
	Cmd      string
	ExitCode int
	LogPath  string
}

func (e *LaunchError) Error() string {
	if e.LogPath != "" {
		return fmt.Sprintf("%s failed with exit code %d (see %s)", e.Cmd, e.ExitCode, e.LogPath)
	}
	return fmt.Sprintf("%s failed with exit code %d", e.Cmd, e.ExitCode)
}
