package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unkn0wn-root/worldcache"
	"github.com/unkn0wn-root/worldcache/store/sqlite"
)

func TestRunFlagsOverrideEnv(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "env.db")
	flagPath := filepath.Join(t.TempDir(), "flag.db")
	t.Setenv("DB_PATH", envPath)
	t.Setenv("SEED_RANDOM", "7")

	require.NoError(t, run([]string{"--db", flagPath, "--fortunes=false"}))

	store, err := sqlite.Open(flagPath)
	require.NoError(t, err)
	defer store.Close()

	ws, err := store.ListWorlds(context.Background())
	require.NoError(t, err)
	require.Len(t, ws, worldcache.WorldCount)
	for _, w := range ws {
		require.True(t, w.RandomNumber >= 1 && w.RandomNumber <= worldcache.WorldCount, "%+v", w)
	}
	fs, err := store.ListFortunes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fs)
}

func TestSeedIsReproducible(t *testing.T) {
	ctx := context.Background()
	read := func(path string) []worldcache.World {
		_, err := seed(ctx, seedConfig{DBPath: path, RandSeed: 42, Fortunes: true})
		require.NoError(t, err)
		store, err := sqlite.Open(path)
		require.NoError(t, err)
		defer store.Close()
		ws, err := store.ListWorlds(ctx)
		require.NoError(t, err)
		return ws
	}
	a := read(filepath.Join(t.TempDir(), "a.db"))
	b := read(filepath.Join(t.TempDir(), "b.db"))
	assert.Equal(t, a, b)
}
