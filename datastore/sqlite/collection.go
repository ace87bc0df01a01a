/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/registry"
)

// collection is the untyped handle handed out for a resolved table.
// Entities cross its boundary as *Model values built via desc.New.
type collection struct {
	store *Store
	desc  registry.TypeDescriptor
}

// CollectionFor returns the collection for a resolved type descriptor,
// creating the backing table if needed. Together with
// registry.Registry.Collection this gives runtime, name-driven access
// to any registered table.
func (s *Store) CollectionFor(desc registry.TypeDescriptor) (registry.Collection, error) {
	if desc.New == nil {
		return nil, errors.NewValidationError("descriptor", "descriptor has no constructor")
	}
	if err := s.EnsureTable(desc.Name); err != nil {
		return nil, err
	}
	return &collection{store: s, desc: desc}, nil
}

// Add stores an entity, assigning a fresh UUID key when the entity does
// not carry one. The key the entity was stored under is returned.
func (c *collection) Add(entity any) (string, error) {
	db, err := c.store.handle()
	if err != nil {
		return "", err
	}

	key, err := entityKey(entity)
	if err != nil {
		return "", err
	}
	if key == "" {
		key = uuid.NewString()
		setEntityKey(entity, key)
	}

	raw, err := json.Marshal(entity)
	if err != nil {
		return "", fmt.Errorf("failed to encode entity: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (k, v) VALUES (?, ?)
		ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at = CURRENT_TIMESTAMP
	`, c.desc.Name)
	if _, err := db.Exec(query, key, string(raw)); err != nil {
		return "", err
	}
	return key, nil
}

// Get returns the entity stored under key as a *Model.
func (c *collection) Get(key string) (any, error) {
	db, err := c.store.handle()
	if err != nil {
		return nil, err
	}

	var raw string
	query := fmt.Sprintf("SELECT v FROM %s WHERE k = ?", c.desc.Name)
	err = db.QueryRow(query, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(c.desc.Name, key)
	}
	if err != nil {
		return nil, err
	}

	entity := c.desc.New()
	if err := json.Unmarshal([]byte(raw), entity); err != nil {
		return nil, fmt.Errorf("failed to decode entity: %w", err)
	}
	return entity, nil
}

// Delete removes the entity stored under key.
func (c *collection) Delete(key string) error {
	db, err := c.store.handle()
	if err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE k = ?", c.desc.Name)
	res, err := db.Exec(query, key)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NewNotFoundError(c.desc.Name, key)
	}
	return nil
}

// All returns every entity in the collection, ordered by key.
func (c *collection) All() ([]any, error) {
	db, err := c.store.handle()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT v FROM %s ORDER BY k ASC", c.desc.Name)
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []any
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		entity := c.desc.New()
		if err := json.Unmarshal([]byte(raw), entity); err != nil {
			return nil, fmt.Errorf("failed to decode entity: %w", err)
		}
		entities = append(entities, entity)
	}
	return entities, rows.Err()
}

// Count reports the number of stored entities.
func (c *collection) Count() (int, error) {
	db, err := c.store.handle()
	if err != nil {
		return 0, err
	}

	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", c.desc.Name)
	if err := db.QueryRow(query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
