package launcher

import (
	"path/filepath"
	"strings"
)

// ComposeEnv returns a copy of environ prepared for a compatibility-layer
// invocation: the prefix location and shader cache paths are appended
// last so inherited variables cannot shadow them, and debug output is
// suppressed unless the caller already set a non-empty WINEDEBUG.
// The input slice is never mutated.
func ComposeEnv(environ []string, prefixDir, cacheDir string) []string {
	env := make([]string, len(environ), len(environ)+4)
	copy(env, environ)

	if envValue(env, "WINEDEBUG") == "" {
		env = append(env, "WINEDEBUG=-all")
	}
	env = append(env,
		"WINEPREFIX="+prefixDir,
		"DXVK_STATE_CACHE_PATH="+filepath.Join(cacheDir, "dxvk"),
		"VKD3D_SHADER_CACHE_PATH="+filepath.Join(cacheDir, "vkd3d"),
	)
	return env
}

// envValue returns the effective value of key in env. With duplicate
// keys the last entry wins, matching exec.Cmd semantics.
func envValue(env []string, key string) string {
	prefix := key + "="
	value := ""
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			value = kv[len(prefix):]
		}
	}
	return value
}
