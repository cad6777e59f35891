package config

import (
	"path/filepath"
	"testing"
)

func TestPaths(t *testing.T) {
	home := filepath.Join(t.TempDir(), "home")
	t.Setenv("HOME", home)

	dataDir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir: %v", err)
	}
	if want := filepath.Join(home, ".notepad"); dataDir != want {
		t.Fatalf("unexpected data dir: got=%q want=%q", dataDir, want)
	}

	configPath, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath: %v", err)
	}
	if want := filepath.Join(home, ".notepad", "config.toml"); configPath != want {
		t.Fatalf("unexpected config path: got=%q want=%q", configPath, want)
	}

	logPath, err := UILogPath()
	if err != nil {
		t.Fatalf("UILogPath: %v", err)
	}
	if want := filepath.Join(home, ".notepad", "ui.log"); logPath != want {
		t.Fatalf("unexpected ui log path: got=%q want=%q", logPath, want)
	}
}
