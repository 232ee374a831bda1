package config_test

import (
	"strings"
	"testing"

	"tmengine/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Rounds != 6 || cfg.SnapshotPath != "tm.snap.zst" || cfg.JournalPath != "tm.db" || cfg.FactionsPath != "" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.Seed == 0 {
		t.Fatal("a zero seed should be replaced")
	}
	if cfg.GameConfig().Rounds != 6 || cfg.GameConfig().MaxPlayers != 5 {
		t.Fatalf("game config = %+v", cfg.GameConfig())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TM_SEED", "42")
	t.Setenv("TM_ROUNDS", "3")
	t.Setenv("TM_JOURNAL_PATH", "/tmp/x.db")
	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 42 || cfg.Rounds != 3 || cfg.JournalPath != "/tmp/x.db" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.GameConfig().Rounds != 3 {
		t.Fatal("rounds not applied")
	}
	a, b := cfg.Rand().Uint64(), cfg.Rand().Uint64()
	if a != b {
		t.Fatal("same seed should give the same stream")
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("TM_ROUNDS", "nine")
	if _, err := config.Load(); err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("err = %v", err)
	}
	t.Setenv("TM_ROUNDS", "0")
	if _, err := config.Load(); err == nil || !strings.Contains(err.Error(), "TM_ROUNDS") {
		t.Fatalf("err = %v", err)
	}
}
