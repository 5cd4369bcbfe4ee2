package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/HasibAlTahsin/norun/internal/sandbox"
)

// LaunchResult reports a supervised child's exit status and log
// location. A non-zero ExitCode is not itself an error of the
// supervisor; callers decide whether to surface it as a failure.
type LaunchResult struct {
	ExitCode int
	LogPath  string
}

// Supervisor resolves, optionally sandbox-wraps, runs, and logs
// compatibility-layer commands. It performs no retries and imposes no
// timeout: GUI apps run indefinitely.
type Supervisor struct {
	Host   sandbox.Host
	Logger *slog.Logger
}

// Run executes command with env. When policy is non-nil the command is
// wrapped with the policy's bwrap arguments; when logPath is non-empty
// stdout and stderr are appended to that file behind a separator line,
// otherwise the caller's streams are inherited. The child's raw exit
// code is propagated verbatim.
func (s *Supervisor) Run(ctx context.Context, command []string, env []string, logPath string, policy *sandbox.Policy) (LaunchResult, error) {
	if len(command) == 0 {
		return LaunchResult{}, errors.New("command is required")
	}
	host := s.Host
	if host == nil {
		host = sandbox.OSHost{}
	}

	if policy != nil && !sandbox.Available(host) {
		return LaunchResult{}, ErrSandboxUnavailable
	}

	// Resolve argv0 before any wrapping so a restricted filesystem
	// cannot hide the binary being launched.
	argv := append([]string(nil), command...)
	if !filepath.IsAbs(argv[0]) {
		resolved, err := host.LookPath(argv[0])
		if err != nil {
			return LaunchResult{}, fmt.Errorf("%w: %s", ErrCommandNotFound, argv[0])
		}
		argv[0] = resolved
	}

	runEnv := append([]string(nil), env...)
	// Wine spawns wineserver internally; inside the sandbox it may fail
	// to locate it by name.
	switch filepath.Base(argv[0]) {
	case "wine", "wine64":
		if ws, err := host.LookPath("wineserver"); err == nil {
			runEnv = append(runEnv, "WINESERVER="+ws)
		}
	}

	if policy != nil {
		wrapped, err := policy.Wrap(host, argv)
		if err != nil {
			return LaunchResult{}, err
		}
		argv = wrapped
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = runEnv

	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return LaunchResult{}, fmt.Errorf("create log dir: %w", err)
		}
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return LaunchResult{}, fmt.Errorf("open log file %q: %w", logPath, err)
		}
		defer logFile.Close()

		header := fmt.Sprintf("\n\n$ %s\n--- %s ---\n", strings.Join(argv, " "), time.Now().Format(time.ANSIC))
		if _, err := logFile.WriteString(header); err != nil {
			return LaunchResult{}, fmt.Errorf("write log header: %w", err)
		}
		cmd.Stdout = logFile
		cmd.Stderr = logFile
	} else {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if s.Logger != nil {
		s.Logger.Debug("running command", "cmd", strings.Join(argv, " "), "log", logPath)
	}

	result := LaunchResult{LogPath: logPath}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("start %s: %w", argv[0], err)
	}
	return result, nil
}
