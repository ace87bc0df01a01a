/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package tablestore

import (
	"sync"

	"github.com/suparena/tablestore/errors"
)

// Storage is a higher-level interface that manages a collection of DataStore instances.
// Note that its methods are not generic; they use the empty interface (any) to store and retrieve DataStores.
type Storage interface {
	// RegisterDataStore registers a DataStore under a given table name (for example, "notes" or "bookmarks").
	RegisterDataStore(name string, ds any) error
	// GetDataStore retrieves the registered DataStore for a given table name.
	// The caller must type-assert the returned value to the appropriate DataStore type.
	GetDataStore(name string) (any, error)
}

// storageManager is a thread-safe implementation of the Storage interface.
type storageManager struct {
	mu     sync.RWMutex
	stores map[string]any
}

// NewStorageManager creates and returns a new Storage implementation.
func NewStorageManager() Storage {
	return &storageManager{
		stores: make(map[string]any),
	}
}

// RegisterDataStore stores the provided DataStore under the given table name.
func (sm *storageManager) RegisterDataStore(name string, ds any) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.stores[name]; exists {
		return errors.NewAlreadyRegisteredError(name)
	}
	sm.stores[name] = ds
	return nil
}

// GetDataStore retrieves the DataStore associated with the given table name.
func (sm *storageManager) GetDataStore(name string) (any, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ds, exists := sm.stores[name]
	if !exists {
		return nil, errors.NewNotFoundError("datastore", name)
	}
	return ds, nil
}
