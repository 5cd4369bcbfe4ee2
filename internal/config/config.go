// Package config loads norun settings from a TOML file and manages the
// per-app configuration store under the norun home directory.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvHome overrides the norun home directory when set.
const EnvHome = "NORUN_HOME"

const (
	// RunnerWine launches apps through plain wine.
	RunnerWine = "wine"
	// RunnerProton launches apps through umu-run (Proton).
	RunnerProton = "proton"
	// RunnerAuto picks a runner from the profile and installer name.
	RunnerAuto = "auto"
)

// Config is the runtime configuration loaded from defaults and config.toml.
type Config struct {
	// HomeDir is runtime-resolved from NORUN_HOME and not read from config.
	HomeDir  string         `mapstructure:"-"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Sandbox  SandboxConfig  `mapstructure:"sandbox"`
}

// DefaultsConfig holds the settings applied to newly added apps.
type DefaultsConfig struct {
	Profile string `mapstructure:"profile"`
	Runner  string `mapstructure:"runner"`
}

// SandboxConfig holds the default sandbox behavior for newly added apps.
type SandboxConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Mode           string `mapstructure:"mode"`
	AllowDownloads bool   `mapstructure:"allow_downloads"`
	// ExtraBinds is a shell-quoted string of additional bwrap bind flags
	// appended to every sandboxed launch, e.g. "--bind /a /a --ro-bind /b /b".
	ExtraBinds string `mapstructure:"extra_binds"`
}

var defaultConfig = Config{
	Defaults: DefaultsConfig{
		Profile: "general",
		Runner:  RunnerAuto,
	},
	Sandbox: SandboxConfig{
		Enabled:        false,
		Mode:           "full",
		AllowDownloads: true,
		ExtraBinds:     "",
	},
}

// homeDir returns the norun home directory.
// Uses the NORUN_HOME env var if set, otherwise ~/.local/share/norun.
func homeDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return defaultHomePath(home), nil
}

// Load merges hardcoded defaults and config file values in that order.
// Config is always at $NORUN_HOME/config.toml.
func Load() (*Config, error) {
	homeDir, err := homeDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(homeConfigPath(homeDir))
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		expandEnvStringHook(),
		mapstructure.StringToSliceHookFunc(","),
	)

	if err := v.Unmarshal(&cfg, func(c *mapstructure.DecoderConfig) {
		c.DecodeHook = decodeHook
	}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.HomeDir = homeDir

	return &cfg, nil
}

// Write writes the merged configuration (defaults overlaid by user
// config) to w in TOML format.
func Write(w io.Writer) error {
	if w == nil {
		return errors.New("writer is required")
	}

	homeDir, err := homeDir()
	if err != nil {
		return err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(homeConfigPath(homeDir))
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read config file: %w", err)
		}
	}

	if err := v.WriteConfigTo(w); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("defaults.profile", defaultConfig.Defaults.Profile)
	v.SetDefault("defaults.runner", defaultConfig.Defaults.Runner)

	v.SetDefault("sandbox.enabled", defaultConfig.Sandbox.Enabled)
	v.SetDefault("sandbox.mode", defaultConfig.Sandbox.Mode)
	v.SetDefault("sandbox.allow_downloads", defaultConfig.Sandbox.AllowDownloads)
	v.SetDefault("sandbox.extra_binds", defaultConfig.Sandbox.ExtraBinds)
}

// EnsureDirs creates the norun directory layout.
func (c *Config) EnsureDirs() error {
	dirs := []string{
		c.PrefixesDir(),
		c.AppsDir(),
		c.LogsDir(),
		filepath.Join(c.CacheDir(), dxvkCacheDirName),
		filepath.Join(c.CacheDir(), vkd3dCacheDirName),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// expandEnvStringHook expands $VAR references in string config values.
func expandEnvStringHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.String {
			return data, nil
		}
		value, ok := data.(string)
		if !ok {
			return data, nil
		}
		return os.ExpandEnv(value), nil
	}
}
