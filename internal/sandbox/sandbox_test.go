package sandbox

import (
	"errors"
	"slices"
	"testing"
)

type fakeHost struct {
	files map[string]bool
	env   map[string]string
	home  string
	bins  map[string]string
}

func (h fakeHost) PathExists(path string) bool {
	return h.files[path]
}

func (h fakeHost) Getenv(key string) string {
	return h.env[key]
}

func (h fakeHost) HomeDir() (string, error) {
	return h.home, nil
}

func (h fakeHost) LookPath(file string) (string, error) {
	if path, ok := h.bins[file]; ok {
		return path, nil
	}
	return "", errors.New("executable file not found")
}

// hasBind reports whether args contains the flag/source pair.
func hasBind(args []string, flag, hostPath string) bool {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == hostPath {
			return true
		}
	}
	return false
}

func quietHost() fakeHost {
	return fakeHost{
		files: map[string]bool{"/": true, "/dev": true, "/home/u": true},
		env:   map[string]string{},
		home:  "/home/u",
	}
}

func TestBuild_InvalidModeFailsBeforeAnyDirective(t *testing.T) {
	args, err := Policy{Mode: "chaotic"}.Build(quietHost())
	if !errors.Is(err, ErrInvalidPolicy) {
		t.Fatalf("expected ErrInvalidPolicy, got %v", err)
	}
	if args != nil {
		t.Fatalf("expected no partial policy, got %v", args)
	}
}

func TestParseMode(t *testing.T) {
	if mode, err := ParseMode("full"); err != nil || mode != ModeFull {
		t.Fatalf("expected full mode, got %q err=%v", mode, err)
	}
	if mode, err := ParseMode("strict"); err != nil || mode != ModeStrict {
		t.Fatalf("expected strict mode, got %q err=%v", mode, err)
	}
	if _, err := ParseMode("paranoid"); !errors.Is(err, ErrInvalidPolicy) {
		t.Fatalf("expected ErrInvalidPolicy, got %v", err)
	}
}

func TestBuild_GlobalDirectivesPresentInEveryMode(t *testing.T) {
	for _, mode := range []Mode{ModeFull, ModeStrict} {
		args, err := Policy{Mode: mode}.Build(quietHost())
		if err != nil {
			t.Fatalf("build %s: %v", mode, err)
		}
		if args[0] != "--unshare-all" {
			t.Fatalf("mode %s: expected --unshare-all first, got %q", mode, args[0])
		}
		for _, want := range []string{"--share-net", "--die-with-parent", "--new-session"} {
			if !slices.Contains(args, want) {
				t.Fatalf("mode %s: missing %s in %v", mode, want, args)
			}
		}
		if !hasBind(args, "--ro-bind", "/") {
			t.Fatalf("mode %s: missing read-only root bind in %v", mode, args)
		}
		if !hasBind(args, "--dev-bind", "/dev") {
			t.Fatalf("mode %s: missing /dev bind in %v", mode, args)
		}
		if !hasBind(args, "--proc", "/proc") {
			t.Fatalf("mode %s: missing fresh /proc in %v", mode, args)
		}
		if !hasBind(args, "--tmpfs", "/tmp") {
			t.Fatalf("mode %s: missing fresh /tmp in %v", mode, args)
		}
	}
}

func TestBuild_StrictNeverBindsHome(t *testing.T) {
	host := quietHost()
	host.files["/home/u/Downloads"] = true
	host.files["/home/u/.local/share/norun"] = true

	for _, allowDownloads := range []bool{false, true} {
		args, err := Policy{Mode: ModeStrict, AllowDownloads: allowDownloads}.Build(host)
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if hasBind(args, "--bind", "/home/u") {
			t.Fatalf("strict mode must not bind home (allowDownloads=%t): %v", allowDownloads, args)
		}
	}
}

func TestBuild_FullBindsHomeAndDownloads(t *testing.T) {
	tests := []struct {
		name           string
		allowDownloads bool
		downloadsExist bool
		wantDownloads  bool
	}{
		{"allowed and present", true, true, true},
		{"allowed but missing", true, false, false},
		{"denied though present", false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := quietHost()
			host.files["/home/u/Downloads"] = tt.downloadsExist

			args, err := Policy{Mode: ModeFull, AllowDownloads: tt.allowDownloads}.Build(host)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if !hasBind(args, "--bind", "/home/u") {
				t.Fatalf("full mode must bind home: %v", args)
			}
			if got := hasBind(args, "--bind", "/home/u/Downloads"); got != tt.wantDownloads {
				t.Fatalf("downloads bind = %t, want %t: %v", got, tt.wantDownloads, args)
			}
		})
	}
}

func TestBuild_FullWithDownloadsEndToEnd(t *testing.T) {
	host := quietHost()
	host.files["/home/u/Downloads"] = true
	host.files["/home/u/.local/share/norun"] = true

	args, err := Policy{Mode: ModeFull, AllowDownloads: true}.Build(host)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !hasBind(args, "--bind", "/home/u") || !hasBind(args, "--bind", "/home/u/Downloads") {
		t.Fatalf("expected home and downloads binds: %v", args)
	}
	if hasBind(args, "--bind", "/home/u/.local/share/norun") {
		t.Fatalf("full mode must not add a data root bind: %v", args)
	}
}

func TestBuild_StrictMissingDataRootIsSkippedWithoutError(t *testing.T) {
	host := quietHost()

	args, err := Policy{Mode: ModeStrict, DataRoot: "/home/u/.local/share/norun"}.Build(host)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if hasBind(args, "--bind", "/home/u/.local/share/norun") {
		t.Fatalf("missing data root must not be bound: %v", args)
	}
}

func TestBuild_StrictBindsDataRootAndXAuthority(t *testing.T) {
	host := quietHost()
	host.files["/home/u/.local/share/norun"] = true
	host.files["/home/u/.Xauthority"] = true

	args, err := Policy{Mode: ModeStrict, DataRoot: "/home/u/.local/share/norun"}.Build(host)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !hasBind(args, "--bind", "/home/u/.local/share/norun") {
		t.Fatalf("expected data root bind: %v", args)
	}
	if !hasBind(args, "--ro-bind", "/home/u/.Xauthority") {
		t.Fatalf("expected read-only Xauthority bind: %v", args)
	}
}

func TestBuild_XAuthorityFromEnvironmentWins(t *testing.T) {
	host := quietHost()
	host.env["XAUTHORITY"] = "/run/user/1000/xauth_abc"
	host.files["/run/user/1000/xauth_abc"] = true
	host.files["/home/u/.Xauthority"] = true

	args, err := Policy{Mode: ModeStrict}.Build(host)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !hasBind(args, "--ro-bind", "/run/user/1000/xauth_abc") {
		t.Fatalf("expected XAUTHORITY bind: %v", args)
	}
	if hasBind(args, "--ro-bind", "/home/u/.Xauthority") {
		t.Fatalf("default Xauthority must not be bound when XAUTHORITY is set: %v", args)
	}
}

func TestBuild_SessionAndDisplayBinds(t *testing.T) {
	host := quietHost()
	host.env["XDG_RUNTIME_DIR"] = "/run/user/1000"
	host.env["DISPLAY"] = ":0"
	host.files["/run/user/1000"] = true
	host.files["/tmp/.X11-unix"] = true
	host.files["/dev/dri"] = true

	args, err := Policy{Mode: ModeFull}.Build(host)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !hasBind(args, "--dev-bind", "/dev/dri") {
		t.Fatalf("expected GPU device bind: %v", args)
	}
	if !hasBind(args, "--bind", "/run/user/1000") {
		t.Fatalf("expected session runtime bind: %v", args)
	}
	if !hasBind(args, "--bind", "/tmp/.X11-unix") {
		t.Fatalf("expected X11 socket bind: %v", args)
	}
	// The ICE socket dir does not exist on this host and must be skipped.
	if hasBind(args, "--bind", "/tmp/.ICE-unix") {
		t.Fatalf("missing ICE socket dir must not be bound: %v", args)
	}
}

func TestBuild_NeverEmitsMissingHostPaths(t *testing.T) {
	host := quietHost()
	host.env["XDG_RUNTIME_DIR"] = "/run/user/1000"
	host.env["DISPLAY"] = ":0"
	// Nothing beyond /, /dev, and home exists.

	args, err := Policy{
		Mode:           ModeFull,
		AllowDownloads: true,
		Extra:          []BindDirective{{HostPath: "/srv/missing"}},
	}.Build(host)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for i := 0; i < len(args)-1; i++ {
		switch args[i] {
		case "--bind", "--ro-bind", "--dev-bind":
			if !host.PathExists(args[i+1]) {
				t.Fatalf("directive source %q did not exist at build time: %v", args[i+1], args)
			}
		}
	}
}

func TestBuild_ExtraDirectivesAppendedLast(t *testing.T) {
	host := quietHost()
	host.files["/srv/data"] = true
	host.files["/srv/config"] = true

	policy := Policy{
		Mode: ModeFull,
		Extra: []BindDirective{
			{HostPath: "/srv/data"},
			{HostPath: "/srv/config", SandboxPath: "/etc/app", ReadOnly: true},
		},
	}
	args, err := policy.Build(host)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := []string{"--bind", "/srv/data", "/srv/data", "--ro-bind", "/srv/config", "/etc/app"}
	got := args[len(args)-len(want):]
	if !slices.Equal(got, want) {
		t.Fatalf("expected extras last, got tail %v", got)
	}
}

func TestWrap_PreservesCommandAfterSeparator(t *testing.T) {
	host := quietHost()
	cmd := []string{"/usr/bin/wine", `C:\app.exe`}

	wrapped, err := Policy{Mode: ModeStrict}.Wrap(host, cmd)
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if wrapped[0] != Binary {
		t.Fatalf("expected %q first, got %q", Binary, wrapped[0])
	}
	sep := slices.Index(wrapped, "--")
	if sep < 0 {
		t.Fatalf("expected -- separator in %v", wrapped)
	}
	if !slices.Equal(wrapped[sep+1:], cmd) {
		t.Fatalf("expected command %v after separator, got %v", cmd, wrapped[sep+1:])
	}
}

func TestAvailable(t *testing.T) {
	withBwrap := fakeHost{bins: map[string]string{"bwrap": "/usr/bin/bwrap"}}
	if !Available(withBwrap) {
		t.Fatal("expected bwrap to be available")
	}
	if Available(fakeHost{}) {
		t.Fatal("expected bwrap to be unavailable")
	}
}

func TestParseDirectives(t *testing.T) {
	got, err := ParseDirectives(`--bind /a /a --ro-bind "/with space" /b`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []BindDirective{
		{HostPath: "/a", SandboxPath: "/a"},
		{HostPath: "/with space", SandboxPath: "/b", ReadOnly: true},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if got, err := ParseDirectives("  "); err != nil || got != nil {
		t.Fatalf("expected empty parse, got %v err=%v", got, err)
	}
	if _, err := ParseDirectives("--tmpfs /tmp"); err == nil {
		t.Fatal("expected error for unsupported flag")
	}
	if _, err := ParseDirectives("--bind /a"); err == nil {
		t.Fatal("expected error for incomplete directive")
	}
}
