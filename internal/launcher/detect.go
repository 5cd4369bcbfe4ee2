package launcher

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// detectSkipNames are common system and utility executables a wine
// prefix contains that are never the app's entry point.
var detectSkipNames = map[string]struct{}{
	"iexplore.exe":    {},
	"wmplayer.exe":    {},
	"notepad.exe":     {},
	"wordpad.exe":     {},
	"explorer.exe":    {},
	"rundll32.exe":    {},
	"regedit.exe":     {},
	"taskmgr.exe":     {},
	"mshta.exe":       {},
	"cmd.exe":         {},
	"powershell.exe":  {},
	"conhost.exe":     {},
	"winecfg.exe":     {},
	"uninstaller.exe": {},
	"setup.exe":       {},
}

// detectSkipDirTokens reject candidates living in vendor runtime or OS
// component folders.
var detectSkipDirTokens = []string{
	"Internet Explorer",
	"Windows Media Player",
	"Windows NT",
	"Common Files",
}

// detectPreferNames are well-known GUI entry points preferred over any
// other candidate.
var detectPreferNames = map[string]struct{}{
	"7zfm.exe":      {},
	"notepad++.exe": {},
	"launcher.exe":  {},
	"start.exe":     {},
	"app.exe":       {},
}

// exeCandidate ranks one discovered executable. Lower sorts first.
type exeCandidate struct {
	path      string
	preferred int
	depth     int
	length    int
}

func newExeCandidate(path string) exeCandidate {
	name := strings.ToLower(filepath.Base(path))
	preferred := 1
	if _, ok := detectPreferNames[name]; ok {
		preferred = 0
	}
	return exeCandidate{
		path:      path,
		preferred: preferred,
		depth:     strings.Count(path, string(os.PathSeparator)),
		length:    len(path),
	}
}

// less orders by preferred-name membership, then path depth, then path
// length, then the path itself so selection never depends on walk order.
func (c exeCandidate) less(o exeCandidate) bool {
	if c.preferred != o.preferred {
		return c.preferred < o.preferred
	}
	if c.depth != o.depth {
		return c.depth < o.depth
	}
	if c.length != o.length {
		return c.length < o.length
	}
	return c.path < o.path
}

// DetectExe scans the prefix's emulated system drive for the most
// plausible GUI entry point and renders it in Windows path syntax
// (C:\...). Returns "" when nothing suitable survives filtering.
func DetectExe(prefixDir string) string {
	driveC := filepath.Join(prefixDir, "drive_c")
	scanRoots := []string{
		filepath.Join(driveC, "Program Files"),
		filepath.Join(driveC, "Program Files (x86)"),
	}

	var candidates []exeCandidate
	for _, root := range scanRoots {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(path), ".exe") {
				return nil
			}
			if _, skip := detectSkipNames[strings.ToLower(d.Name())]; skip {
				return nil
			}
			for _, token := range detectSkipDirTokens {
				if strings.Contains(path, token) {
					return nil
				}
			}
			candidates = append(candidates, newExeCandidate(path))
			return nil
		})
	}
	if len(candidates) == 0 {
		return ""
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].less(candidates[j])
	})
	best := candidates[0].path

	rel, err := filepath.Rel(driveC, best)
	if err != nil {
		return ""
	}
	return `C:\` + strings.ReplaceAll(rel, string(os.PathSeparator), `\`)
}
