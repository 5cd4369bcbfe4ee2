// Package hints summarizes compatibility-layer logs and flags known
// failure signatures.
package hints

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

type signature struct {
	pattern *regexp.Regexp
	hint    string
}

var signatures = []signature{
	{regexp.MustCompile(`(?i)mscoree|dotnet`), "Hint: .NET needed -> try profile=dotnet"},
	{regexp.MustCompile(`(?i)vcrun|msvcp|vcruntime`), "Hint: VC++ runtime missing -> try vcrun2019"},
	{regexp.MustCompile(`(?i)d3d|dxgi|vulkan`), "Hint: graphics issue -> try runner=proton (umu-run)"},
	{regexp.MustCompile(`(?i)anti.?cheat|easy anti-cheat|battleye`), "Hint: anti-cheat detected -> often needs native Windows"},
}

const tailLines = 200

// Summarize returns the tail of the log at logPath plus any known
// failure hints found in it. Invalid UTF-8 bytes are dropped.
func Summarize(logPath string) (string, error) {
	data, err := os.ReadFile(logPath)
	if errors.Is(err, os.ErrNotExist) {
		return "No log file found.", nil
	}
	if err != nil {
		return "", fmt.Errorf("read log %q: %w", logPath, err)
	}

	lines := strings.Split(strings.ToValidUTF8(string(data), ""), "\n")
	if len(lines) > tailLines {
		lines = lines[len(lines)-tailLines:]
	}
	tail := strings.Join(lines, "\n")

	var found []string
	for _, sig := range signatures {
		if sig.pattern.MatchString(tail) {
			found = append(found, sig.hint)
		}
	}
	sort.Strings(found)

	var b strings.Builder
	b.WriteString("---- last 200 log lines ----\n")
	b.WriteString(tail)
	if len(found) > 0 {
		b.WriteString("\n\n---- hints ----\n")
		for _, hint := range found {
			fmt.Fprintf(&b, "- %s\n", hint)
		}
	}
	return b.String(), nil
}
