package sandbox

import (
	"os"
	"os/exec"
)

// Host abstracts the probes policy construction performs, so tests can
// simulate arbitrary host states without touching a real filesystem.
type Host interface {
	PathExists(path string) bool
	Getenv(key string) string
	HomeDir() (string, error)
	LookPath(file string) (string, error)
}

// OSHost probes the real operating system.
type OSHost struct{}

func (OSHost) PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSHost) Getenv(key string) string {
	return os.Getenv(key)
}

func (OSHost) HomeDir() (string, error) {
	return os.UserHomeDir()
}

func (OSHost) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}
