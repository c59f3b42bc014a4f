// Command worldseed creates the World and Fortune tables in a SQLite file and
// fills them: WorldCount rows with random numbers in [1, WorldCount] plus the
// standard fortunes. Existing rows are replaced.
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
	"github.com/unkn0wn-root/worldcache/store/sqlite"
)

type seedConfig struct {
	DBPath string `env:"DB_PATH" envDefault:"world.db"`
	// RandSeed makes the generated rows reproducible; 0 draws a fresh seed.
	RandSeed uint64 `env:"SEED_RANDOM" envDefault:"0"`
	Fortunes bool   `env:"SEED_FORTUNES" envDefault:"true"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "worldseed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var cfg seedConfig
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	fs := pflag.NewFlagSet("worldseed", pflag.ContinueOnError)
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path ($DB_PATH)")
	fs.Uint64Var(&cfg.RandSeed, "seed", cfg.RandSeed, "random seed, 0 for a fresh one ($SEED_RANDOM)")
	fs.BoolVar(&cfg.Fortunes, "fortunes", cfg.Fortunes, "also seed the Fortune table ($SEED_FORTUNES)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	start := time.Now()
	n, err := seed(context.Background(), cfg)
	if err != nil {
		return err
	}
	fmt.Printf("Seeded %d worlds into %s in %s\n", n, cfg.DBPath, time.Since(start))
	return nil
}

func seed(ctx context.Context, cfg seedConfig) (int, error) {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	s := cfg.RandSeed
	if s == 0 {
		s = rand.Uint64()
	}
	r := rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))

	worlds := sqlite.RandomWorlds(r.IntN)
	fortunes := sqlite.DefaultFortunes()
	if !cfg.Fortunes {
		fortunes = nil
	}
	if err := store.Seed(ctx, worlds, fortunes); err != nil {
		return 0, err
	}
	return len(worlds), nil
}
