package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appDir = "rectangular"

// Dir returns the per-user state directory, creating it if needed.
// Priority:
// 1) %LOCALAPPDATA%\rectangular on Windows
// 2) $XDG_STATE_HOME/rectangular
// 3) ~/.local/state/rectangular
// 4) <tmp>/rectangular-<uid>
func Dir() (string, error) {
	dir := candidate()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create state dir: %w", err)
	}
	return dir, nil
}

func candidate() string {
	if runtime.GOOS == "windows" {
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, appDir)
		}
	}
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		return filepath.Join(state, appDir)
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".local", "state", appDir)
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-%d", appDir, os.Getuid()))
}

// LogPath returns the path of the application log file.
func LogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir+".log"), nil
}
