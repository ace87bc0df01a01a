/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/storagemodels"
)

// SqliteDataStore implements datastore.DataStore[T] on top of one table
// of a Store. Entities are stored as JSON rows keyed by their ID field.
type SqliteDataStore[T any] struct {
	store *Store
	table string
	keyFn func(T) string
}

// StoreOption configures a SqliteDataStore.
type StoreOption[T any] func(*SqliteDataStore[T])

// WithKeyFunc overrides how row keys are derived from entities. The
// default reads the entity's ID field.
func WithKeyFunc[T any](fn func(T) string) StoreOption[T] {
	return func(d *SqliteDataStore[T]) { d.keyFn = fn }
}

// New constructs a SqliteDataStore for type T over the named table,
// creating the table if needed.
func New[T any](store *Store, table string, opts ...StoreOption[T]) (*SqliteDataStore[T], error) {
	if err := store.EnsureTable(table); err != nil {
		return nil, err
	}

	d := &SqliteDataStore[T]{
		store: store,
		table: table,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *SqliteDataStore[T]) key(entity T) (string, error) {
	if d.keyFn != nil {
		return d.keyFn(entity), nil
	}
	return entityKey(entity)
}

// GetOne retrieves a single entity by key. A miss returns a
// NotFoundError, which callers can branch on via errors.IsNotFound.
func (d *SqliteDataStore[T]) GetOne(ctx context.Context, key string) (*T, error) {
	db, err := d.store.handle()
	if err != nil {
		return nil, err
	}

	var raw string
	query := fmt.Sprintf("SELECT v FROM %s WHERE k = ?", d.table)
	err = db.QueryRowContext(ctx, query, key).Scan(&raw)
	if err == sql.ErrNoRows {
		var zero T
		return nil, errors.NewNotFoundError(fmt.Sprintf("%T", zero), key)
	}
	if err != nil {
		return nil, err
	}

	result := new(T)
	if err := json.Unmarshal([]byte(raw), result); err != nil {
		return nil, fmt.Errorf("failed to decode entity: %w", err)
	}
	return result, nil
}

// Put stores the given entity, inserting or replacing the row under its key.
func (d *SqliteDataStore[T]) Put(ctx context.Context, entity T) error {
	db, err := d.store.handle()
	if err != nil {
		return err
	}

	key, err := d.key(entity)
	if err != nil {
		return err
	}
	if key == "" {
		return errors.NewValidationError("key", "entity key must not be empty")
	}

	raw, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to encode entity: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (k, v) VALUES (?, ?)
		ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at = CURRENT_TIMESTAMP
	`, d.table)
	_, err = db.ExecContext(ctx, query, key, string(raw))
	return err
}

// UpdateFields applies a partial update to the stored entity under key.
// Field names refer to the entity's JSON attribute names. A miss
// returns a NotFoundError.
func (d *SqliteDataStore[T]) UpdateFields(ctx context.Context, key string, updates map[string]any) error {
	if len(updates) == 0 {
		return errors.NewValidationError("updates", "no updates provided")
	}

	return d.store.WithTx(ctx, func(tx *sql.Tx) error {
		var raw string
		query := fmt.Sprintf("SELECT v FROM %s WHERE k = ?", d.table)
		err := tx.QueryRowContext(ctx, query, key).Scan(&raw)
		if err == sql.ErrNoRows {
			var zero T
			return errors.NewNotFoundError(fmt.Sprintf("%T", zero), key)
		}
		if err != nil {
			return err
		}

		fields := make(map[string]any)
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return fmt.Errorf("failed to decode entity: %w", err)
		}
		for k, v := range updates {
			fields[k] = v
		}

		merged, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("failed to encode entity: %w", err)
		}

		update := fmt.Sprintf("UPDATE %s SET v = ?, updated_at = CURRENT_TIMESTAMP WHERE k = ?", d.table)
		_, err = tx.ExecContext(ctx, update, string(merged), key)
		return err
	})
}

// Delete removes the entity stored under key. A miss returns a NotFoundError.
func (d *SqliteDataStore[T]) Delete(ctx context.Context, key string) error {
	db, err := d.store.handle()
	if err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE k = ?", d.table)
	res, err := db.ExecContext(ctx, query, key)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var zero T
		return errors.NewNotFoundError(fmt.Sprintf("%T", zero), key)
	}
	return nil
}

// Query returns all entities matching params. The Table field of params
// is ignored; the datastore is bound to its table.
func (d *SqliteDataStore[T]) Query(ctx context.Context, params *storagemodels.QueryParams) ([]T, error) {
	db, err := d.store.handle()
	if err != nil {
		return nil, err
	}

	query, args := d.buildQuery(params)
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []T
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var entity T
		if err := json.Unmarshal([]byte(raw), &entity); err != nil {
			return nil, fmt.Errorf("failed to decode entity: %w", err)
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

func (d *SqliteDataStore[T]) buildQuery(params *storagemodels.QueryParams) (string, []any) {
	var sb strings.Builder
	var args []any

	sb.WriteString(fmt.Sprintf("SELECT v FROM %s", d.table))
	if params != nil {
		if params.Where != "" {
			sb.WriteString(" WHERE ")
			sb.WriteString(params.Where)
			args = append(args, params.Args...)
		}
		if params.OrderBy != "" {
			sb.WriteString(" ORDER BY ")
			sb.WriteString(params.OrderBy)
		}
		if params.Limit > 0 {
			sb.WriteString(fmt.Sprintf(" LIMIT %d", params.Limit))
		} else if params.Offset > 0 {
			// SQLite only accepts OFFSET after a LIMIT clause.
			sb.WriteString(" LIMIT -1")
		}
		if params.Offset > 0 {
			sb.WriteString(fmt.Sprintf(" OFFSET %d", params.Offset))
		}
	}

	return sb.String(), args
}

// Stream reads matching rows page by page and delivers them on the
// returned channel. The channel closes when the stream is exhausted,
// the context is canceled, or a page fails past its retry budget.
// Limit in params caps the total number of delivered results.
func (d *SqliteDataStore[T]) Stream(ctx context.Context, params *storagemodels.QueryParams, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[T] {
	options := storagemodels.DefaultStreamOptions()
	for _, opt := range opts {
		opt(&options)
	}

	out := make(chan storagemodels.StreamResult[T], options.BufferSize)

	go func() {
		defer close(out)

		progress := storagemodels.StreamProgress{StartTime: time.Now()}
		offset := 0
		limit := 0
		if params != nil {
			offset = params.Offset
			limit = params.Limit
		}

		for {
			// Cancellation must end the stream even when the error
			// handler keeps electing to continue.
			select {
			case <-ctx.Done():
				return
			default:
			}

			pageSize := options.PageSize
			if limit > 0 {
				remaining := limit - int(progress.ItemsProcessed)
				if remaining <= 0 {
					return
				}
				if remaining < pageSize {
					pageSize = remaining
				}
			}

			page := storagemodels.QueryParams{
				Limit:  pageSize,
				Offset: offset,
			}
			if params != nil {
				page.Where = params.Where
				page.Args = params.Args
				page.OrderBy = params.OrderBy
			}
			if page.OrderBy == "" {
				// Stable paging needs a deterministic order.
				page.OrderBy = "k ASC"
			}

			rows, err := d.queryPageWithRetry(ctx, &page, &options)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if options.ErrorHandler != nil && options.ErrorHandler(err) {
					progress.Errors = append(progress.Errors, err)
					offset += pageSize
					continue
				}
				select {
				case out <- storagemodels.StreamResult[T]{Error: err}:
				case <-ctx.Done():
				}
				return
			}

			progress.PagesProcessed++

			for _, row := range rows {
				var entity T
				result := storagemodels.StreamResult[T]{
					Raw: json.RawMessage(row),
					Meta: storagemodels.StreamMeta{
						Index:      progress.ItemsProcessed,
						PageNumber: progress.PagesProcessed,
						Timestamp:  time.Now(),
					},
				}
				if err := json.Unmarshal([]byte(row), &entity); err != nil {
					result.Error = fmt.Errorf("failed to decode entity: %w", err)
				} else {
					result.Item = entity
				}

				select {
				case out <- result:
					progress.ItemsProcessed++
				case <-ctx.Done():
					return
				}
			}

			if options.ProgressHandler != nil {
				if elapsed := time.Since(progress.StartTime).Seconds(); elapsed > 0 {
					progress.CurrentRate = float64(progress.ItemsProcessed) / elapsed
				}
				options.ProgressHandler(progress)
			}

			if len(rows) < pageSize {
				return
			}
			offset += pageSize
		}
	}()

	return out
}

func (d *SqliteDataStore[T]) queryPageWithRetry(ctx context.Context, page *storagemodels.QueryParams, options *storagemodels.StreamOptions) ([]string, error) {
	var lastErr error
	for attempt := 0; attempt <= options.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(options.RetryBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		rows, err := d.queryPage(ctx, page)
		if err == nil {
			return rows, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (d *SqliteDataStore[T]) queryPage(ctx context.Context, page *storagemodels.QueryParams) ([]string, error) {
	db, err := d.store.handle()
	if err != nil {
		return nil, err
	}

	query, args := d.buildQuery(page)
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var raws []string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	return raws, rows.Err()
}
