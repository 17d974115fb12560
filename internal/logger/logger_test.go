package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewReleaseWritesToConfiguredFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := Options{
		Dir:      tmpDir,
		Filename: "release.log",
	}
	log := New("release", cfg)
	log.Info("release-log-test")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "release.log"))
	if err != nil {
		t.Fatalf("read release log failed: %v", err)
	}
	if !strings.Contains(string(content), "release-log-test") {
		t.Fatalf("expected log content to contain message, got=%s", string(content))
	}
}

func TestNewDebugDoesNotWriteFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := Options{
		Dir:      tmpDir,
		Filename: "debug.log",
	}
	log := New("debug", cfg)
	log.Info("debug-log-test")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(tmpDir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode should not create log file")
	}
}

func TestSugaredHelpersWorkWithoutInit(t *testing.T) {
	prev := L
	L = nil
	t.Cleanup(func() { L = prev })

	// None of these may panic before Init runs.
	Infow("startup-check", "ok", true)
	Warnw("startup-check")
	if S() == nil {
		t.Fatalf("S must always return a logger")
	}
	if SW("request_id", "abc") == nil {
		t.Fatalf("SW must always return a logger")
	}
	if StdLogger() == nil {
		t.Fatalf("StdLogger must always return a logger")
	}
}

func TestFileWriteSyncerDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	if _, err := newFileWriteSyncer(Options{}); err != nil {
		t.Fatalf("default syncer failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, defaultLogDirName)); err != nil {
		t.Fatalf("expected default log dir to be created: %v", err)
	}
}
