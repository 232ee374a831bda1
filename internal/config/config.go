// Package config reads the runtime settings of a session from the
// environment.
package config

import (
	"fmt"
	"math/rand/v2"

	"github.com/caarlos0/env/v11"

	"tmengine/internal/engine"
)

// Config is everything a session needs besides the seating.
type Config struct {
	// Seed drives tile and bonus card selection. Zero picks one at random.
	Seed         uint64 `env:"TM_SEED"`
	Rounds       int    `env:"TM_ROUNDS" envDefault:"6"`
	SnapshotPath string `env:"TM_SNAPSHOT_PATH" envDefault:"tm.snap.zst"`
	JournalPath  string `env:"TM_JOURNAL_PATH" envDefault:"tm.db"`
	// FactionsPath points at a YAML catalog replacing the builtin factions.
	FactionsPath string `env:"TM_FACTIONS_PATH"`
}

// Load parses the environment and checks the values.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if n := len(engine.AllScoringTiles()); cfg.Rounds < 1 || cfg.Rounds > n {
		return cfg, fmt.Errorf("TM_ROUNDS=%d: want 1 to %d", cfg.Rounds, n)
	}
	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}
	return cfg, nil
}

// GameConfig applies the settings to the engine defaults.
func (c Config) GameConfig() engine.GameConfig {
	gc := engine.DefaultConfig()
	gc.Rounds = c.Rounds
	return gc
}

// Rand returns the random source seeded from Seed.
func (c Config) Rand() *rand.Rand {
	return rand.New(rand.NewPCG(c.Seed, c.Seed))
}
