package runtimepath

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDir_UsesXDGStateHomeWhenSet(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("LOCALAPPDATA takes precedence on windows")
	}
	td := t.TempDir()
	t.Setenv("XDG_STATE_HOME", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	want := filepath.Join(td, "rectangular")
	if got != want {
		t.Fatalf("Dir() = %q, want %q", got, want)
	}
	if info, err := os.Stat(got); err != nil || !info.IsDir() {
		t.Fatalf("Dir() did not create %q: %v", got, err)
	}
}

func TestDir_FallsBackToHome(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("LOCALAPPDATA takes precedence on windows")
	}
	home := t.TempDir()
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", home)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	want := filepath.Join(home, ".local", "state", "rectangular")
	if got != want {
		t.Fatalf("Dir() = %q, want %q", got, want)
	}
}

func TestDir_UsesLocalAppDataOnWindows(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("windows only")
	}
	td := t.TempDir()
	t.Setenv("LOCALAPPDATA", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != filepath.Join(td, "rectangular") {
		t.Fatalf("Dir() = %q", got)
	}
}

func TestLogPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_STATE_HOME", td)
	t.Setenv("LOCALAPPDATA", td)

	got, err := LogPath()
	if err != nil {
		t.Fatalf("LogPath() error: %v", err)
	}
	if filepath.Base(got) != "rectangular.log" {
		t.Fatalf("LogPath() = %q, missing file name", got)
	}
	if filepath.Dir(got) != filepath.Join(td, "rectangular") {
		t.Fatalf("LogPath() = %q, unexpected dir", got)
	}
}
