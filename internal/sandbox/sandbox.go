// Package sandbox turns a declarative isolation policy into bubblewrap
// arguments for launching untrusted Windows apps.
package sandbox

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
)

// Binary is the isolation primitive driven by this package.
const Binary = "bwrap"

// ErrInvalidPolicy reports a sandbox mode outside the known set.
var ErrInvalidPolicy = errors.New("sandbox mode must be one of: full, strict")

// Mode selects how much of the host an app may see.
type Mode string

const (
	// ModeFull exposes the user's home directory (compatibility-first).
	ModeFull Mode = "full"
	// ModeStrict hides the home directory, exposing only the norun data
	// root plus explicitly allowed directories.
	ModeStrict Mode = "strict"
)

// ParseMode validates and returns a sandbox mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFull:
		return ModeFull, nil
	case ModeStrict:
		return ModeStrict, nil
	default:
		return "", fmt.Errorf("%w (got %q)", ErrInvalidPolicy, s)
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeFull || m == ModeStrict
}

// BindDirective exposes one host path inside the sandbox. A directive
// whose host path does not exist at build time is omitted, never passed
// to bwrap as a missing-source bind.
type BindDirective struct {
	HostPath    string
	SandboxPath string
	ReadOnly    bool
}

// Policy describes one sandboxed launch. It is constructed fresh per
// invocation and never mutated after being handed to the supervisor.
type Policy struct {
	Mode           Mode
	AllowDownloads bool
	// DataRoot is the norun home directory, exposed read-write in strict
	// mode when it exists. Defaults to ~/.local/share/norun.
	DataRoot string
	// Extra directives are appended verbatim after the mode-specific set.
	Extra []BindDirective
}

// Build renders the policy into an ordered bwrap argument list:
// global isolation first, then device/session/display exceptions, then
// the mode-specific set, then caller extras. The order is part of the
// external interface and must be preserved.
func (p Policy) Build(host Host) ([]string, error) {
	if !p.Mode.Valid() {
		return nil, fmt.Errorf("%w (got %q)", ErrInvalidPolicy, p.Mode)
	}
	home, err := host.HomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home dir: %w", err)
	}

	args := []string{
		"--unshare-all",
		"--share-net",
		"--die-with-parent",
		"--new-session",
		"--dev-bind", "/dev", "/dev",
		// Whole root filesystem read-only: binding only specific system
		// directories breaks loader/symlink resolution on many distros.
		"--ro-bind", "/", "/",
		"--proc", "/proc",
		"--tmpfs", "/tmp",
	}

	// GPU accel (DXVK/VKD3D).
	if host.PathExists("/dev/dri") {
		args = append(args, "--dev-bind", "/dev/dri", "/dev/dri")
	}

	// Session runtime (portals, dbus, wayland).
	if rt := host.Getenv("XDG_RUNTIME_DIR"); rt != "" && host.PathExists(rt) {
		args = append(args, "--bind", rt, rt)
	}

	// X11 sockets.
	if host.Getenv("DISPLAY") != "" {
		args = appendBind(args, host, BindDirective{HostPath: "/tmp/.X11-unix"})
		args = appendBind(args, host, BindDirective{HostPath: "/tmp/.ICE-unix"})
	}

	downloads := filepath.Join(home, "Downloads")
	switch p.Mode {
	case ModeFull:
		args = append(args, "--bind", home, home)
		if p.AllowDownloads {
			args = appendBind(args, host, BindDirective{HostPath: downloads})
		}
	case ModeStrict:
		dataRoot := p.DataRoot
		if dataRoot == "" {
			dataRoot = filepath.Join(home, ".local", "share", "norun")
		}
		args = appendBind(args, host, BindDirective{HostPath: dataRoot})
		if p.AllowDownloads {
			args = appendBind(args, host, BindDirective{HostPath: downloads})
		}
		// X11 auth is commonly required even without a home bind.
		xauth := host.Getenv("XAUTHORITY")
		if xauth == "" {
			xauth = filepath.Join(home, ".Xauthority")
		}
		args = appendBind(args, host, BindDirective{HostPath: xauth, ReadOnly: true})
	}

	for _, d := range p.Extra {
		args = appendBind(args, host, d)
	}

	return args, nil
}

// Wrap returns the full argument vector for running cmd under bwrap,
// preserving cmd's executable-first-arg semantics after the separator.
func (p Policy) Wrap(host Host, cmd []string) ([]string, error) {
	args, err := p.Build(host)
	if err != nil {
		return nil, err
	}
	wrapped := make([]string, 0, len(args)+len(cmd)+2)
	wrapped = append(wrapped, Binary)
	wrapped = append(wrapped, args...)
	wrapped = append(wrapped, "--")
	wrapped = append(wrapped, cmd...)
	return wrapped, nil
}

// Available reports whether the isolation primitive is installed.
func Available(host Host) bool {
	_, err := host.LookPath(Binary)
	return err == nil
}

// appendBind appends d as bwrap flags, dropping it when the host path
// is missing.
func appendBind(args []string, host Host, d BindDirective) []string {
	if d.HostPath == "" || !host.PathExists(d.HostPath) {
		return args
	}
	flag := "--bind"
	if d.ReadOnly {
		flag = "--ro-bind"
	}
	dest := d.SandboxPath
	if dest == "" {
		dest = d.HostPath
	}
	return append(args, flag, d.HostPath, dest)
}

// ParseDirectives parses a shell-quoted string of bwrap-style bind flags
// ("--bind /a /a --ro-bind /b /b") into directives.
func ParseDirectives(raw string) ([]BindDirective, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	tokens, err := shlex.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("parse bind directives: %w", err)
	}

	var out []BindDirective
	for i := 0; i < len(tokens); i += 3 {
		var readOnly bool
		switch tokens[i] {
		case "--bind":
		case "--ro-bind":
			readOnly = true
		default:
			return nil, fmt.Errorf("unsupported bind flag %q", tokens[i])
		}
		if i+2 >= len(tokens) {
			return nil, fmt.Errorf("incomplete bind directive near %q", tokens[i])
		}
		out = append(out, BindDirective{
			HostPath:    tokens[i+1],
			SandboxPath: tokens[i+2],
			ReadOnly:    readOnly,
		})
	}
	return out, nil
}
