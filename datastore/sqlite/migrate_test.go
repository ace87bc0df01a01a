/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlite_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeMigrations(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"000001_create_notes.up.sql": `CREATE TABLE notes (
			k          TEXT PRIMARY KEY,
			v          TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		"000001_create_notes.down.sql": `DROP TABLE notes;`,
		"000002_notes_title_index.up.sql": `CREATE INDEX notes_updated_at
			ON notes (updated_at);`,
		"000002_notes_title_index.down.sql": `DROP INDEX notes_updated_at;`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestMigrateUpDown(t *testing.T) {
	store := openTestStore(t)
	dir := writeMigrations(t)

	require.NoError(t, store.MigrateUp(dir))

	version, dirty, err := store.MigrateVersion(dir)
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(2), version)

	// The migrated schema is live.
	var name string
	err = store.DB().QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'notes'",
	).Scan(&name)
	require.NoError(t, err)

	// Up again is a no-op.
	require.NoError(t, store.MigrateUp(dir))

	// Roll back one step.
	require.NoError(t, store.MigrateDown(dir))
	version, _, err = store.MigrateVersion(dir)
	require.NoError(t, err)
	require.Equal(t, uint(1), version)
}

func TestMigrateTo(t *testing.T) {
	store := openTestStore(t)
	dir := writeMigrations(t)

	require.NoError(t, store.MigrateTo(dir, 1))

	version, _, err := store.MigrateVersion(dir)
	require.NoError(t, err)
	require.Equal(t, uint(1), version)
}

func TestMigrateVersionFreshDatabase(t *testing.T) {
	store := openTestStore(t)
	dir := writeMigrations(t)

	version, dirty, err := store.MigrateVersion(dir)
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(0), version)
}
