/*
Package sqlite provides the embedded SQL engine implementation of the
DataStore interface, backed by a local SQLite database file
(modernc.org/sqlite, no cgo).

A Store wraps one database file. Each registered table becomes one SQL
table holding the entity key and its JSON payload:

	(k TEXT PRIMARY KEY, v TEXT NOT NULL, created_at, updated_at)

Typed access:

	store, _ := sqlite.Open(cfg)
	notes, _ := sqlite.New[Note](store, "notes")
	notes.Put(ctx, Note{ID: "1", Title: "hello"})
	one, _ := notes.GetOne(ctx, "1")

Untyped access by registered name (the Store implements
registry.CollectionSource):

	col, _ := reg.Collection(store, "notes")
	col.Add(&Note{Title: "auto-keyed"}) // key assigned when absent

Schema lifecycle: EnsureTables creates the backing tables for every
registered name; user-owned schema evolution goes through the
golang-migrate passthrough (MigrateUp, MigrateDown, MigrateTo,
MigrateVersion, MigrateForce) against a directory of *.up.sql /
*.down.sql files.

The store does not create the data directory; opening a path in a
missing directory fails with the engine's own error.
*/
package sqlite
