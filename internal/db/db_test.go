package db

import (
	"context"
	"path/filepath"
	"testing"
)

func TestBootstrapCreatesSchemaOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "palettes.db")

	database, err := Bootstrap(ctx, dbPath)
	if err != nil {
		t.Fatalf("bootstrap db: %v", err)
	}
	defer database.Close()

	var tables int
	if err := database.QueryRowContext(ctx, "SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = 'palettes'").Scan(&tables); err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if tables != 1 {
		t.Fatalf("expected palettes table, found %d", tables)
	}

	applied, err := RunMigrations(ctx, database)
	if err != nil {
		t.Fatalf("rerun migrations: %v", err)
	}
	if len(applied) != 0 {
		t.Fatalf("expected no migrations on second run, got %v", applied)
	}
}

func TestOpenInMemory(t *testing.T) {
	t.Parallel()

	database, err := Bootstrap(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("bootstrap in-memory db: %v", err)
	}
	defer database.Close()

	if _, err := database.Exec("INSERT INTO palettes(cache_key, image_hash, source_path, width, height, sampled, stride, options_json, colors_json, created_at, accessed_at) VALUES ('k', 'h', 'p', 1, 1, 1, 1, '{}', '[]', 'now', 'now')"); err != nil {
		t.Fatalf("insert into in-memory palettes: %v", err)
	}
}

func TestBootstrapAppliesPragmas(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	database, err := Bootstrap(ctx, filepath.Join(t.TempDir(), "palettes.db"))
	if err != nil {
		t.Fatalf("bootstrap db: %v", err)
	}
	defer database.Close()

	var foreignKeys int
	if err := database.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
		t.Fatalf("read foreign_keys: %v", err)
	}
	if foreignKeys != 1 {
		t.Fatalf("expected foreign_keys on, got %d", foreignKeys)
	}

	var journalMode string
	if err := database.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("read journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Fatalf("expected wal journal, got %q", journalMode)
	}
}
