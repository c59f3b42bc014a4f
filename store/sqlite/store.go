// Package sqlite provides the SQLite-backed World and Fortune datastore.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/unkn0wn-root/worldcache"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned by GetWorld for an unknown id. It wraps sql.ErrNoRows.
var ErrNotFound = fmt.Errorf("world not found: %w", sql.ErrNoRows)

// Store persists World and Fortune rows in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ worldcache.Store = (*Store)(nil)

// Open opens (creating if needed) a SQLite database and ensures the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// ListWorlds returns every World row ordered by id.
func (s *Store) ListWorlds(ctx context.Context) ([]worldcache.World, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id, randomNumber FROM World ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list worlds: %w", err)
	}
	defer rows.Close()

	out := make([]worldcache.World, 0, worldcache.WorldCount)
	for rows.Next() {
		var w worldcache.World
		if err := rows.Scan(&w.ID, &w.RandomNumber); err != nil {
			return nil, fmt.Errorf("scan world: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list worlds: %w", err)
	}
	return out, nil
}

// GetWorld returns one World row.
func (s *Store) GetWorld(ctx context.Context, id int) (worldcache.World, error) {
	w := worldcache.World{ID: id}
	err := s.sqlDB.QueryRowContext(ctx, `SELECT randomNumber FROM World WHERE id = ?`, id).Scan(&w.RandomNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return worldcache.World{}, fmt.Errorf("world %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return worldcache.World{}, fmt.Errorf("get world %d: %w", id, err)
	}
	return w, nil
}

// ListFortunes returns every Fortune row in storage order.
func (s *Store) ListFortunes(ctx context.Context) ([]worldcache.Fortune, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id, message FROM Fortune`)
	if err != nil {
		return nil, fmt.Errorf("list fortunes: %w", err)
	}
	defer rows.Close()

	var out []worldcache.Fortune
	for rows.Next() {
		var f worldcache.Fortune
		if err := rows.Scan(&f.ID, &f.Message); err != nil {
			return nil, fmt.Errorf("scan fortune: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list fortunes: %w", err)
	}
	return out, nil
}

// Seed replaces the contents of both tables in one transaction.
func (s *Store) Seed(ctx context.Context, worlds []worldcache.World, fortunes []worldcache.Fortune) (err error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{`DELETE FROM World`, `DELETE FROM Fortune`} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear tables: %w", err)
		}
	}

	wst, err := tx.PrepareContext(ctx, `INSERT INTO World (id, randomNumber) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare world insert: %w", err)
	}
	defer wst.Close()
	for _, w := range worlds {
		if _, err = wst.ExecContext(ctx, w.ID, w.RandomNumber); err != nil {
			return fmt.Errorf("insert world %d: %w", w.ID, err)
		}
	}

	fst, err := tx.PrepareContext(ctx, `INSERT INTO Fortune (id, message) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare fortune insert: %w", err)
	}
	defer fst.Close()
	for _, f := range fortunes {
		if _, err = fst.ExecContext(ctx, f.ID, f.Message); err != nil {
			return fmt.Errorf("insert fortune %d: %w", f.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}
