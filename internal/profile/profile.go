// Package profile defines the built-in compatibility profiles applied
// when a prefix is initialized, and the runner-selection heuristic.
package profile

import (
	"sort"
	"strings"

	"github.com/HasibAlTahsin/norun/internal/config"
)

// Profile is a named set of compatibility-layer tweaks.
type Profile struct {
	// WindowsVersion is the winetricks Windows version verb (e.g. "win10").
	WindowsVersion string
	// DependencyPackages are winetricks verbs installed into the prefix.
	DependencyPackages []string
	// GraphicsPackages are winetricks verbs enabling translation layers.
	GraphicsPackages []string
}

var catalog = map[string]Profile{
	"general": {
		WindowsVersion:     "win10",
		DependencyPackages: []string{"corefonts", "vcrun2019"},
		GraphicsPackages:   []string{"dxvk", "vkd3d"},
	},
	"dotnet": {
		WindowsVersion:     "win10",
		DependencyPackages: []string{"corefonts", "vcrun2019", "dotnet48"},
		GraphicsPackages:   []string{"dxvk", "vkd3d"},
	},
	"games": {
		WindowsVersion:     "win10",
		DependencyPackages: []string{"corefonts"},
		GraphicsPackages:   []string{"dxvk", "vkd3d"},
	},
}

// Lookup returns the named profile.
func Lookup(name string) (Profile, bool) {
	p, ok := catalog[name]
	return p, ok
}

// Names returns all profile names, sorted.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// protonHints are installer-path substrings suggesting a game or a
// modern graphics API, where Proton fares better than plain wine.
var protonHints = []string{"steam", "epic", "gog", "unity", "unreal", "dx12", "vulkan"}

// ChooseRunner picks a runner for an app from its profile and installer path.
func ChooseRunner(profileName, installerPath string) string {
	if profileName == "games" {
		return config.RunnerProton
	}
	low := strings.ToLower(installerPath)
	for _, hint := range protonHints {
		if strings.Contains(low, hint) {
			return config.RunnerProton
		}
	}
	return config.RunnerWine
}
