package maintenance

import (
	"context"
	"sync"
)

// MemoryRepo holds the status in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	status Status
}

// NewMemoryRepo constructs a MemoryRepo that reports no maintenance.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Get returns the stored status.
func (r *MemoryRepo) Get(ctx context.Context) (Status, error) {
	if err := ctx.Err(); err != nil {
		return Status{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status, nil
}

// Set replaces the stored status.
func (r *MemoryRepo) Set(status Status) {
	r.mu.Lock()
	r.status = status
	r.mu.Unlock()
}
