/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/suparena/tablestore"
	"github.com/suparena/tablestore/datastore/sqlite"
	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/storagemodels"
)

type Task struct {
	ID       string `json:"Id"`
	Title    string `json:"Title"`
	Done     bool   `json:"Done"`
	Priority int    `json:"Priority"`
}

func openTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.OpenPath(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenFromConfig(t *testing.T) {
	cfg := tablestore.NewConfig()
	require.NoError(t, cfg.SetDataDir(t.TempDir()))
	require.NoError(t, cfg.SetFileName("app.db"))

	store, err := sqlite.Open(cfg)
	require.NoError(t, err)
	defer store.Close()

	path, err := cfg.Path()
	require.NoError(t, err)
	require.Equal(t, path, store.Path())
}

func TestOpenMissingDirectory(t *testing.T) {
	// The store does not create directories; opening inside a missing
	// one fails with the engine's own error, unwrapped.
	_, err := sqlite.OpenPath(filepath.Join(t.TempDir(), "nope", "app.db"))
	require.Error(t, err)
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	tasks, err := sqlite.New[Task](store, "tasks")
	require.NoError(t, err)

	task := Task{ID: "t1", Title: "write tests", Priority: 2}
	require.NoError(t, tasks.Put(ctx, task))

	got, err := tasks.GetOne(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, task, *got)

	// Put with the same key replaces the row.
	task.Done = true
	require.NoError(t, tasks.Put(ctx, task))
	got, err = tasks.GetOne(ctx, "t1")
	require.NoError(t, err)
	require.True(t, got.Done)

	require.NoError(t, tasks.Delete(ctx, "t1"))

	_, err = tasks.GetOne(ctx, "t1")
	require.True(t, errors.IsNotFound(err), "expected not found, got %v", err)

	err = tasks.Delete(ctx, "t1")
	require.True(t, errors.IsNotFound(err), "expected not found, got %v", err)
}

func TestPutRequiresKey(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	tasks, err := sqlite.New[Task](store, "tasks")
	require.NoError(t, err)

	err = tasks.Put(ctx, Task{Title: "no key"})
	require.True(t, errors.IsValidationError(err), "expected validation error, got %v", err)
}

func TestKeyFuncOverride(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	tasks, err := sqlite.New[Task](store, "tasks",
		sqlite.WithKeyFunc[Task](func(task Task) string { return "fixed" }))
	require.NoError(t, err)

	require.NoError(t, tasks.Put(ctx, Task{Title: "anything"}))

	got, err := tasks.GetOne(ctx, "fixed")
	require.NoError(t, err)
	require.Equal(t, "anything", got.Title)
}

func TestUpdateFields(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	tasks, err := sqlite.New[Task](store, "tasks")
	require.NoError(t, err)

	require.NoError(t, tasks.Put(ctx, Task{ID: "t1", Title: "before", Priority: 1}))

	err = tasks.UpdateFields(ctx, "t1", map[string]any{"Title": "after", "Done": true})
	require.NoError(t, err)

	got, err := tasks.GetOne(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, "after", got.Title)
	require.True(t, got.Done)
	require.Equal(t, 1, got.Priority, "untouched fields survive")

	err = tasks.UpdateFields(ctx, "missing", map[string]any{"Title": "x"})
	require.True(t, errors.IsNotFound(err), "expected not found, got %v", err)

	err = tasks.UpdateFields(ctx, "t1", nil)
	require.True(t, errors.IsValidationError(err), "expected validation error, got %v", err)
}

func TestQuery(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	tasks, err := sqlite.New[Task](store, "tasks")
	require.NoError(t, err)

	for _, task := range []Task{
		{ID: "a", Title: "one"},
		{ID: "b", Title: "two"},
		{ID: "c", Title: "three"},
	} {
		require.NoError(t, tasks.Put(ctx, task))
	}

	t.Run("All", func(t *testing.T) {
		results, err := tasks.Query(ctx, nil)
		require.NoError(t, err)
		require.Len(t, results, 3)
	})

	t.Run("WhereOnKey", func(t *testing.T) {
		results, err := tasks.Query(ctx, &storagemodels.QueryParams{
			Where: "k >= ?",
			Args:  []any{"b"},
		})
		require.NoError(t, err)
		require.Len(t, results, 2)
	})

	t.Run("OrderLimitOffset", func(t *testing.T) {
		results, err := tasks.Query(ctx, &storagemodels.QueryParams{
			OrderBy: "k ASC",
			Limit:   1,
			Offset:  1,
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.Equal(t, "b", results[0].ID)
	})
}

func TestStream(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	tasks, err := sqlite.New[Task](store, "tasks")
	require.NoError(t, err)

	const total = 25
	for i := 0; i < total; i++ {
		require.NoError(t, tasks.Put(ctx, Task{ID: fmt.Sprintf("%03d", i), Title: "t"}))
	}

	var pages int
	results := tasks.Stream(ctx, nil,
		storagemodels.WithPageSize(10),
		storagemodels.WithProgressHandler(func(p storagemodels.StreamProgress) {
			pages = p.PagesProcessed
		}),
	)

	count := 0
	for result := range results {
		require.NoError(t, result.Error)
		require.NotEmpty(t, result.Raw)
		require.Equal(t, int64(count), result.Meta.Index)
		count++
	}
	require.Equal(t, total, count)
	require.Equal(t, 3, pages)
}

func TestStreamCancel(t *testing.T) {
	store := openTestStore(t)

	tasks, err := sqlite.New[Task](store, "tasks")
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		require.NoError(t, tasks.Put(ctx, Task{ID: fmt.Sprintf("%02d", i)}))
	}

	streamCtx, cancel := context.WithCancel(ctx)
	results := tasks.Stream(streamCtx, nil, storagemodels.WithBufferSize(0), storagemodels.WithPageSize(2))

	// Take one result, then cancel; the channel must close.
	<-results
	cancel()
	for range results {
	}
}

func TestStreamCancelWithContinuingErrorHandler(t *testing.T) {
	store := openTestStore(t)

	tasks, err := sqlite.New[Task](store, "tasks")
	require.NoError(t, err)

	// Every page fails, and the error handler keeps asking for the next
	// page. Cancellation must still terminate the stream.
	streamCtx, cancel := context.WithCancel(context.Background())
	results := tasks.Stream(streamCtx, &storagemodels.QueryParams{
		Where: "no_such_column = ?",
		Args:  []any{1},
	},
		storagemodels.WithMaxRetries(0),
		storagemodels.WithErrorHandler(func(error) bool { return true }),
	)

	time.AfterFunc(50*time.Millisecond, cancel)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range results {
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not terminate after cancel")
	}
}

func TestStreamHonorsLimit(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	tasks, err := sqlite.New[Task](store, "tasks")
	require.NoError(t, err)

	for i := 0; i < 25; i++ {
		require.NoError(t, tasks.Put(ctx, Task{ID: fmt.Sprintf("%03d", i)}))
	}

	results := tasks.Stream(ctx, &storagemodels.QueryParams{Limit: 7},
		storagemodels.WithPageSize(3))

	count := 0
	for result := range results {
		require.NoError(t, result.Error)
		count++
	}
	require.Equal(t, 7, count)
}

func TestCloseDuringReads(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	tasks, err := sqlite.New[Task](store, "tasks")
	require.NoError(t, err)
	require.NoError(t, tasks.Put(ctx, Task{ID: "t1"}))

	// Readers race with Close; each stops on the first error.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if _, err := tasks.GetOne(ctx, "t1"); err != nil {
					return
				}
			}
		}()
	}

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, store.Close())
	wg.Wait()

	_, err = tasks.GetOne(ctx, "t1")
	require.True(t, errors.IsClosed(err), "expected closed error, got %v", err)
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.EnsureTable("tasks"))

	// A failing function rolls the transaction back.
	boom := fmt.Errorf("boom")
	err := store.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO tasks (k, v) VALUES (?, ?)", "tx1", "{}"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, store.DB().QueryRow("SELECT COUNT(*) FROM tasks").Scan(&n))
	require.Equal(t, 0, n)

	// A successful function commits.
	err = store.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO tasks (k, v) VALUES (?, ?)", "tx2", "{}")
		return err
	})
	require.NoError(t, err)

	require.NoError(t, store.DB().QueryRow("SELECT COUNT(*) FROM tasks").Scan(&n))
	require.Equal(t, 1, n)
}
