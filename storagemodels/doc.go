/*
Package storagemodels defines the data structures used throughout tablestore.

Key Types:

QueryParams:
Parameters for querying a table:

	params := &QueryParams{
	    Table:   "notes",
	    Where:   "updated_at > ?",
	    Args:    []any{cutoff},
	    OrderBy: "k ASC",
	    Limit:   100,
	}

StreamResult:
Results from streaming operations with metadata:

	type StreamResult[T any] struct {
	    Item  T               // The typed entity
	    Raw   json.RawMessage // Raw stored row payload
	    Error error           // Item-specific error, if any
	    Meta  StreamMeta      // Metadata about this item
	}

StreamOptions:
Configuration for streaming behavior:

	opts := []StreamOption{
	    WithBufferSize(100),
	    WithPageSize(25),
	    WithMaxRetries(3),
	    WithProgressHandler(progressFunc),
	}

These types provide a consistent interface across different storage implementations.
*/
package storagemodels
