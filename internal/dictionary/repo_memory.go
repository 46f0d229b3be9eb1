package dictionary

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores rows in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	rows map[string]Row
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: make(map[string]Row)}
}

// Put inserts or replaces a row by ID.
func (r *MemoryRepo) Put(row Row) {
	r.mu.Lock()
	r.rows[row.ID] = row
	r.mu.Unlock()
}

// List returns rows ordered by plant name, unnamed rows last.
func (r *MemoryRepo) List(ctx context.Context) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Row, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].PlantName, out[j].PlantName
		switch {
		case a == nil && b == nil:
			return out[i].ID < out[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case *a != *b:
			return *a < *b
		default:
			return out[i].ID < out[j].ID
		}
	})
	return out, nil
}
