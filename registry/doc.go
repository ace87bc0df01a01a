/*
Package registry maps friendly table names to model type descriptors.

The registry lets application code register a string name for a data
model at startup and later resolve that name back into a handle on the
embedded engine's matching collection, without compile-time knowledge of
which model belongs to which name. This is what makes generic UI code
("list all tables, open one") possible.

Registration and resolution:

	reg := registry.NewRegistry()
	registry.Register[Note](reg, "notes")

	desc, err := reg.Resolve("notes")   // desc.GoType == reflect.TypeOf(Note{})

Collections:

	col, err := reg.Collection(store, "notes")
	entities, _ := col.All()            // []any of *Note

Duplicate names are rejected unless the registry was constructed with
WithOverwrite, in which case the last registration wins. Both policies
are deterministic.

The registry is thread-safe, but it is typically populated once during
initialization on a single goroutine. Construct a Registry in your
composition root and pass it by reference; the package exposes no global
instance.
*/
package registry
