package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunReturnsErrors(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TM_JOURNAL_PATH", filepath.Join(dir, "games.db"))
	t.Setenv("TM_SNAPSHOT_PATH", filepath.Join(dir, "missing.snap.zst"))

	if err := run("", false, true); err != nil {
		t.Fatalf("standings on an empty journal: %v", err)
	}
	err := run("", true, false)
	if err == nil || !strings.HasPrefix(err.Error(), "resume:") {
		t.Fatalf("resume without a snapshot: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "games.db")); err != nil {
		t.Fatalf("journal not created: %v", err)
	}

	t.Setenv("TM_ROUNDS", "0")
	if err := run("", false, false); err == nil || !strings.HasPrefix(err.Error(), "config:") {
		t.Fatalf("bad config: %v", err)
	}
}
