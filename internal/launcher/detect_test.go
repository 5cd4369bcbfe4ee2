package launcher

import (
	"os"
	"path/filepath"
	"testing"
)

// writeExes creates empty files under prefix/drive_c for each relative
// Windows-side path.
func writeExes(t *testing.T, prefix string, relPaths ...string) {
	t.Helper()
	for _, rel := range relPaths {
		path := filepath.Join(prefix, "drive_c", filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func TestDetectExe_SkipsDenyListedNames(t *testing.T) {
	prefix := t.TempDir()
	writeExes(t, prefix,
		"Program Files/uninstaller.exe",
		"Program Files/MyApp/app.exe",
	)

	got := DetectExe(prefix)
	want := `C:\Program Files\MyApp\app.exe`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDetectExe_SkipsDeniedDirectoryTokens(t *testing.T) {
	prefix := t.TempDir()
	writeExes(t, prefix,
		"Program Files/Common Files/shared.exe",
		"Program Files/Internet Explorer/ieapp.exe",
		"Program Files (x86)/RealApp/realapp.exe",
	)

	got := DetectExe(prefix)
	want := `C:\Program Files (x86)\RealApp\realapp.exe`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDetectExe_NotFoundWhenFilteringRemovesEverything(t *testing.T) {
	prefix := t.TempDir()
	writeExes(t, prefix,
		"Program Files/setup.exe",
		"Program Files/Common Files/tool.exe",
	)

	if got := DetectExe(prefix); got != "" {
		t.Fatalf("expected not found, got %q", got)
	}
}

func TestDetectExe_EmptyPrefix(t *testing.T) {
	if got := DetectExe(t.TempDir()); got != "" {
		t.Fatalf("expected not found for empty prefix, got %q", got)
	}
}

func TestDetectExe_PreferredNameBeatsDepth(t *testing.T) {
	prefix := t.TempDir()
	writeExes(t, prefix,
		"Program Files/shallow.exe",
		"Program Files/Deep/Nested/launcher.exe",
	)

	got := DetectExe(prefix)
	want := `C:\Program Files\Deep\Nested\launcher.exe`
	if got != want {
		t.Fatalf("expected preferred name to win, got %q", got)
	}
}

func TestDetectExe_ShallowerWinsThenShorter(t *testing.T) {
	prefix := t.TempDir()
	writeExes(t, prefix,
		"Program Files/Tool/run.exe",
		"Program Files/Tool/sub/deeper.exe",
	)
	got := DetectExe(prefix)
	want := `C:\Program Files\Tool\run.exe`
	if got != want {
		t.Fatalf("expected shallower candidate, got %q", got)
	}

	prefix = t.TempDir()
	writeExes(t, prefix,
		"Program Files/Alpha/ab.exe",
		"Program Files/Alpha/abcdef.exe",
	)
	got = DetectExe(prefix)
	want = `C:\Program Files\Alpha\ab.exe`
	if got != want {
		t.Fatalf("expected shorter path, got %q", got)
	}
}

func TestDetectExe_Deterministic(t *testing.T) {
	prefix := t.TempDir()
	writeExes(t, prefix,
		"Program Files/Beta/bb.exe",
		"Program Files/Gamma/gg.exe",
		"Program Files/Alpha/aa.exe",
	)

	first := DetectExe(prefix)
	for i := 0; i < 5; i++ {
		if got := DetectExe(prefix); got != first {
			t.Fatalf("detection not deterministic: %q then %q", first, got)
		}
	}
	// Full three-key tie means the path itself breaks the tie.
	if first != `C:\Program Files\Alpha\aa.exe` {
		t.Fatalf("unexpected winner %q", first)
	}
}
