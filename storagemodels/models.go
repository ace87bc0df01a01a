/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

// QueryParams defines parameters for a query against one table.
// Used for both regular queries and streaming queries.
type QueryParams struct {
	// Table is the table name. Implementations bound to a single table
	// may ignore it.
	Table string
	// Where is an optional SQL predicate over the row columns
	// (for example "k LIKE ?" or "updated_at > ?").
	Where string
	// Args holds the placeholder values for Where.
	Args []any
	// OrderBy is an optional ORDER BY clause body (for example "k ASC").
	OrderBy string
	// Limit caps the number of returned rows when > 0.
	Limit int
	// Offset skips that many rows when > 0.
	Offset int
}
