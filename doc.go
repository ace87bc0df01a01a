/*
Package tablestore packages an embedded SQL engine (SQLite) with a small
registry and datastore layer, so desktop applications can declare data
models and get local persistence with minimal wiring.

The library follows a declare → register → open workflow:
  - Declare: define plain Go structs for your models
  - Register: map friendly table names to model types in a registry
  - Open: point the store at a database file and use typed datastores

Key Features:
  - Type-safe operations using Go generics
  - Runtime table resolution by name for generic UI code
  - Set-once database location configuration
  - Schema creation and migration delegated to the embedded engine
  - Semantic error types for better error handling
  - In-memory mock datastore for testing

Basic Usage:

	// Configure the database location once, at startup
	cfg := tablestore.NewConfig()
	cfg.SetDataDir("/home/user/.myapp")
	cfg.SetFileName("myapp.db")

	// Register table names for your models
	reg := registry.NewRegistry()
	registry.Register[Note](reg, "notes")

	// Open the embedded engine and ensure schemas exist
	store, _ := sqlite.Open(cfg)
	store.EnsureTables(reg)

	// Typed access
	notes, _ := sqlite.New[Note](store, "notes")
	err := notes.Put(ctx, Note{ID: "123", Title: "hello"})

	// Untyped access, resolved by name at runtime
	col, _ := reg.Collection(store, "notes")
	all, _ := col.All()

For more information, see the documentation at https://github.com/suparena/tablestore
*/
package tablestore
