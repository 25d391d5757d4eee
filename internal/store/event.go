package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// sequenceCounter hands out one increasing number shared by every event
// table, so model calls and transitions interleave in the order they
// happened. Its row lives in the global_sequence table created by migrate.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// Next claims the next number.
func (c *sequenceCounter) Next(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	row := c.db.QueryRowContext(ctx, `UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("claim sequence: %w", err)
	}
	return n, nil
}
