/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"sort"
	"sync"

	"github.com/suparena/tablestore/errors"
)

// TypeDescriptor identifies a previously declared model shape at runtime.
// The embedded engine uses it to locate the collection storing that model.
type TypeDescriptor struct {
	// Name is the friendly table name the descriptor was registered under.
	Name string
	// GoType is the model's reflect.Type (the struct type, not a pointer).
	GoType reflect.Type
	// New returns a pointer to a fresh zero value of the model type,
	// suitable for decoding a stored row into.
	New func() any
}

// DescriptorFor builds a TypeDescriptor for model type T.
func DescriptorFor[T any](name string) TypeDescriptor {
	var zero T
	return TypeDescriptor{
		Name:   name,
		GoType: reflect.TypeOf(zero),
		New:    func() any { return new(T) },
	}
}

// Collection is an untyped handle to one table of the embedded engine,
// resolved at runtime from a registered name. UI code that lists tables
// generically works against this interface instead of concrete models.
type Collection interface {
	// Add stores an entity, assigning a key when the entity provides none.
	// It returns the key the entity was stored under.
	Add(entity any) (string, error)
	// Get returns the entity stored under key as a *Model.
	Get(key string) (any, error)
	// Delete removes the entity stored under key.
	Delete(key string) error
	// All returns every entity in the collection as *Model values.
	All() ([]any, error)
	// Count reports the number of stored entities.
	Count() (int, error)
}

// CollectionSource is the engine-side capability the registry composes
// with: given a descriptor, hand back the matching collection.
// datastore/sqlite.Store implements it.
type CollectionSource interface {
	CollectionFor(desc TypeDescriptor) (Collection, error)
}

// Registry maps friendly table names to type descriptors. It is safe for
// concurrent use. Construct one per application (or per test) and pass it
// by reference; there is deliberately no package-level instance.
type Registry struct {
	mu        sync.RWMutex
	tables    map[string]TypeDescriptor
	overwrite bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithOverwrite makes duplicate registrations replace the previous entry
// instead of failing. The default rejects duplicates.
func WithOverwrite() Option {
	return func(r *Registry) { r.overwrite = true }
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		tables: make(map[string]TypeDescriptor),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterTable records name -> desc. The name must be non-empty. Under
// the default policy a second registration of the same name returns an
// AlreadyRegisteredError; with WithOverwrite the last write wins.
func (r *Registry) RegisterTable(name string, desc TypeDescriptor) error {
	if name == "" {
		return errors.NewValidationError("name", "table name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tables[name]; exists && !r.overwrite {
		return errors.NewAlreadyRegisteredError(name)
	}
	desc.Name = name
	r.tables[name] = desc
	return nil
}

// Register is a generic convenience that builds the descriptor for T and
// registers it under name.
func Register[T any](r *Registry, name string) error {
	return r.RegisterTable(name, DescriptorFor[T](name))
}

// Resolve returns the descriptor registered under name. It is
// side-effect free and returns a NotFoundError for unregistered names.
func (r *Registry) Resolve(name string) (TypeDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.tables[name]
	if !ok {
		return TypeDescriptor{}, errors.NewNotFoundError("table", name)
	}
	return desc, nil
}

// Names returns the registered table names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of registered tables.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}

// Collection resolves name and asks src for the matching collection
// handle. A NotFoundError is returned for unregistered names; any error
// the engine reports for the resolved descriptor passes through as is.
func (r *Registry) Collection(src CollectionSource, name string) (Collection, error) {
	desc, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	return src.CollectionFor(desc)
}
