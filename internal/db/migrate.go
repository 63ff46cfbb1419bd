package db

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
)

const (
	migrationsDir = "migrations"
	seedDir       = "seed"
)

// Migrate applies the SQL files found under migrations/ in migrationFS.
// It creates a `schema_migrations` table to track applied migrations and
// runs, in file name order, every migration not yet recorded there.
func Migrate(ctx context.Context, d *DB, migrationFS fs.FS) error {
	if _, err := d.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	files, err := sqlFiles(migrationFS, migrationsDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	for _, fname := range files {
		// use filename (without extension) as migration version key
		version := strings.TrimSuffix(fname, path.Ext(fname))

		var count int
		if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, version).Scan(&count); err != nil {
			return fmt.Errorf("scan migration applied count: %w", err)
		}
		if count > 0 {
			continue
		}

		b, err := fs.ReadFile(migrationFS, path.Join(migrationsDir, fname))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", fname, err)
		}

		err = d.RunAtomic(ctx, func(ctx context.Context) error {
			if _, err := d.Exec(ctx, string(b)); err != nil {
				return fmt.Errorf("exec migration %s: %w", fname, err)
			}
			if _, err := d.Exec(ctx, `INSERT INTO schema_migrations (version, applied) VALUES (?, strftime('%s','now'))`, version); err != nil {
				return fmt.Errorf("record migration %s: %w", fname, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		d.logger.Info("migration applied", slog.String("version", version))
	}

	return nil
}

// Seed executes every SQL file under seed/ in seedFS. Seed files are
// expected to be idempotent (INSERT OR IGNORE) so Seed can run on every start.
func Seed(ctx context.Context, d *DB, seedFS fs.FS) error {
	files, err := sqlFiles(seedFS, seedDir)
	if err != nil {
		return fmt.Errorf("read seed dir: %w", err)
	}

	return d.RunAtomic(ctx, func(ctx context.Context) error {
		for _, fname := range files {
			b, err := fs.ReadFile(seedFS, path.Join(seedDir, fname))
			if err != nil {
				return fmt.Errorf("read seed %s: %w", fname, err)
			}
			if _, err := d.Exec(ctx, string(b)); err != nil {
				return fmt.Errorf("exec seed %s: %w", fname, err)
			}
			d.logger.Info("seed applied", slog.String("file", fname))
		}
		return nil
	})
}

func sqlFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	return files, nil
}
