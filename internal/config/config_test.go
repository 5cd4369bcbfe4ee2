package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_DefaultsApplyWithoutConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HomeDir != home {
		t.Fatalf("expected home dir %q, got %q", home, cfg.HomeDir)
	}
	if cfg.Defaults.Profile != "general" {
		t.Fatalf("expected default profile %q, got %q", "general", cfg.Defaults.Profile)
	}
	if cfg.Defaults.Runner != RunnerAuto {
		t.Fatalf("expected default runner %q, got %q", RunnerAuto, cfg.Defaults.Runner)
	}
	if cfg.Sandbox.Enabled {
		t.Fatal("expected sandbox disabled by default")
	}
	if cfg.Sandbox.Mode != "full" {
		t.Fatalf("expected default sandbox mode %q, got %q", "full", cfg.Sandbox.Mode)
	}
	if !cfg.Sandbox.AllowDownloads {
		t.Fatal("expected downloads allowed by default")
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)

	configBody := `
[defaults]
profile = "games"
runner = "proton"

[sandbox]
enabled = true
mode = "strict"
allow_downloads = false
`
	if err := os.WriteFile(filepath.Join(home, ConfigFileName), []byte(configBody), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Defaults.Profile != "games" {
		t.Fatalf("expected profile %q, got %q", "games", cfg.Defaults.Profile)
	}
	if cfg.Defaults.Runner != RunnerProton {
		t.Fatalf("expected runner %q, got %q", RunnerProton, cfg.Defaults.Runner)
	}
	if !cfg.Sandbox.Enabled {
		t.Fatal("expected sandbox enabled from file")
	}
	if cfg.Sandbox.Mode != "strict" {
		t.Fatalf("expected sandbox mode %q, got %q", "strict", cfg.Sandbox.Mode)
	}
	if cfg.Sandbox.AllowDownloads {
		t.Fatal("expected downloads disallowed from file")
	}
}

func TestLoad_ExpandsEnvVarsInStringValues(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	t.Setenv("NORUN_SHARED_DIR", "/srv/shared")

	configBody := `
[sandbox]
extra_binds = "--bind $NORUN_SHARED_DIR $NORUN_SHARED_DIR"
`
	if err := os.WriteFile(filepath.Join(home, ConfigFileName), []byte(configBody), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := "--bind /srv/shared /srv/shared"
	if cfg.Sandbox.ExtraBinds != want {
		t.Fatalf("expected extra binds %q, got %q", want, cfg.Sandbox.ExtraBinds)
	}
}

func TestPathsLayout(t *testing.T) {
	cfg := &Config{HomeDir: "/data/norun"}

	if got := cfg.PrefixDir("demo"); got != "/data/norun/prefixes/demo" {
		t.Fatalf("unexpected prefix dir %q", got)
	}
	if got := cfg.AppDir("demo"); got != "/data/norun/apps/demo" {
		t.Fatalf("unexpected app dir %q", got)
	}
	if got := cfg.RunLogPath("demo"); got != "/data/norun/logs/demo/run.log" {
		t.Fatalf("unexpected run log path %q", got)
	}
	if got := cfg.InstallLogPath("demo"); got != "/data/norun/logs/demo/install.log" {
		t.Fatalf("unexpected install log path %q", got)
	}
	if got := cfg.CacheDir(); got != "/data/norun/cache" {
		t.Fatalf("unexpected cache dir %q", got)
	}
}

func TestEnsureDirs(t *testing.T) {
	cfg := &Config{HomeDir: t.TempDir()}
	if err := cfg.EnsureDirs(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}
	for _, dir := range []string{
		cfg.PrefixesDir(),
		cfg.AppsDir(),
		cfg.LogsDir(),
		filepath.Join(cfg.CacheDir(), "dxvk"),
		filepath.Join(cfg.CacheDir(), "vkd3d"),
	} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q, err=%v", dir, err)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Defaults: DefaultsConfig{Runner: RunnerAuto},
		Sandbox:  SandboxConfig{Mode: "full"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cfg.Sandbox.Mode = "paranoid"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "sandbox.mode") {
		t.Fatalf("expected sandbox.mode error, got %v", err)
	}

	cfg.Sandbox.Mode = "strict"
	cfg.Defaults.Runner = "dosbox"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "defaults.runner") {
		t.Fatalf("expected defaults.runner error, got %v", err)
	}
}
