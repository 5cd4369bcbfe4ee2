package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// AppConfig is one installed app's persisted settings. It is created once
// per app and mutated only to record the last successfully launched
// executable path.
type AppConfig struct {
	Name        string `json:"name"`
	Profile     string `json:"profile"`
	Runner      string `json:"runner"`
	Prefix      string `json:"prefix"`
	LastExe     string `json:"last_exe"`
	Sandbox     bool   `json:"sandbox"`
	SandboxMode string `json:"sandbox_mode"`
	// ExtraBinds holds shell-quoted bwrap bind flags applied to every
	// sandboxed launch of this app, on top of the global ones.
	ExtraBinds string `json:"extra_binds,omitempty"`
}

// AppStore manages per-app config records, one app.json per app directory.
type AppStore struct {
	cfg *Config
	mu  sync.Mutex
}

// NewAppStore creates a store rooted at cfg's apps directory.
func NewAppStore(cfg *Config) *AppStore {
	return &AppStore{cfg: cfg}
}

// Save persists app, creating its directory when needed.
func (s *AppStore) Save(app *AppConfig) error {
	if app == nil || strings.TrimSpace(app.Name) == "" {
		return errors.New("app name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.cfg.AppDir(app.Name), 0o755); err != nil {
		return fmt.Errorf("create app dir: %w", err)
	}
	data, err := json.MarshalIndent(app, "", "  ")
	if err != nil {
		return fmt.Errorf("encode app config: %w", err)
	}
	path := s.cfg.appConfigPath(app.Name)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write app config %q: %w", path, err)
	}
	return nil
}

// Load returns the app's config, or nil when the app does not exist.
func (s *AppStore) Load(name string) (*AppConfig, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("app name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.cfg.appConfigPath(name)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read app config %q: %w", path, err)
	}
	var app AppConfig
	if err := json.Unmarshal(data, &app); err != nil {
		return nil, fmt.Errorf("decode app config %q: %w", path, err)
	}
	return &app, nil
}

// Delete removes the app's directory, including its config record.
func (s *AppStore) Delete(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("app name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.RemoveAll(s.cfg.AppDir(name)); err != nil {
		return fmt.Errorf("remove app dir: %w", err)
	}
	return nil
}

// List returns the names of all apps with a config record, sorted.
func (s *AppStore) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.cfg.AppsDir())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read apps dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(s.cfg.appConfigPath(entry.Name())); err != nil {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
