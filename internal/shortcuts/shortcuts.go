// Package shortcuts manages desktop-entry files for installed apps.
package shortcuts

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

const entryTemplate = `[Desktop Entry]
Type=Application
Name=%s (norun)
Exec=norun run "%s"
Terminal=false
Categories=Utility;
`

// DefaultApplicationsDir returns the user's desktop-entry directory.
func DefaultApplicationsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "applications"), nil
}

func entryPath(applicationsDir, appName string) string {
	return filepath.Join(applicationsDir, "norun-"+appName+".desktop")
}

// Create writes a desktop entry launching appName and refreshes the
// desktop database when the tool is available.
func Create(applicationsDir, appName string) (string, error) {
	if err := os.MkdirAll(applicationsDir, 0o755); err != nil {
		return "", fmt.Errorf("create applications dir: %w", err)
	}
	path := entryPath(applicationsDir, appName)
	entry := fmt.Sprintf(entryTemplate, appName, appName)
	if err := os.WriteFile(path, []byte(entry), 0o644); err != nil {
		return "", fmt.Errorf("write desktop entry %q: %w", path, err)
	}

	// Best effort; not every desktop ships the tool.
	if updater, err := exec.LookPath("update-desktop-database"); err == nil {
		_ = exec.Command(updater, applicationsDir).Run()
	}
	return path, nil
}

// Remove deletes the app's desktop entry if present.
func Remove(applicationsDir, appName string) error {
	err := os.Remove(entryPath(applicationsDir, appName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove desktop entry: %w", err)
	}
	return nil
}
