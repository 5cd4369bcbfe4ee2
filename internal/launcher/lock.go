package launcher

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

const lockFileName = ".norun.lock"

// lockPrefix takes an exclusive advisory lock on the prefix for the
// duration of an install or run. A wine prefix is not safe for
// concurrent writers, so invocations against the same prefix serialize
// here. Blocks until the lock is available.
func lockPrefix(prefixDir string) (release func(), err error) {
	if err := os.MkdirAll(prefixDir, 0o755); err != nil {
		return nil, fmt.Errorf("create prefix dir %q: %w", prefixDir, err)
	}
	path := filepath.Join(prefixDir, lockFileName)
	lockFile, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open prefix lock %q: %w", path, err)
	}
	if err := unix.Flock(int(lockFile.Fd()), unix.LOCK_EX); err != nil {
		lockFile.Close()
		return nil, fmt.Errorf("lock prefix %q: %w", prefixDir, err)
	}
	return func() {
		unix.Flock(int(lockFile.Fd()), unix.LOCK_UN)
		lockFile.Close()
	}, nil
}
