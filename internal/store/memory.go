package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"recepcion/pkg/types"
)

// firstOrderID matches the start of recepcion.order_id_seq.
const firstOrderID = 1100

// MemoryRepository keeps receipts in process memory. It backs the memory
// store driver and tests.
type MemoryRepository struct {
	mu   sync.RWMutex
	rows map[int]types.StoredRecord
	next int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		rows: make(map[int]types.StoredRecord),
		next: firstOrderID,
	}
}

func (r *MemoryRepository) NextOrderID(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.next
	r.next++
	return id, nil
}

func (r *MemoryRepository) InsertRecord(ctx context.Context, stored types.StoredRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := stored.Record.OrderID
	if _, ok := r.rows[id]; ok {
		return fmt.Errorf("failed to insert receipt: %w: %d", types.ErrOrderExists, id)
	}
	r.rows[id] = stamp(stored)
	return nil
}

func (r *MemoryRepository) UpsertRecord(ctx context.Context, stored types.StoredRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := stored.Record.OrderID
	if existing, ok := r.rows[id]; ok {
		stored.CreatedAt = existing.CreatedAt
	}
	r.rows[id] = stamp(stored)
	return nil
}

func stamp(stored types.StoredRecord) types.StoredRecord {
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	return stored
}

func (r *MemoryRepository) Record(ctx context.Context, id int) (*types.StoredRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.rows[id]
	if !ok {
		return nil, types.ErrRecordNotFound
	}
	return &stored, nil
}

func (r *MemoryRepository) CountSummaries(ctx context.Context, search string) (int, error) {
	return len(r.matching(search)), nil
}

func (r *MemoryRepository) Summaries(ctx context.Context, search string, limit, offset int) ([]types.RecordSummary, error) {
	matched := r.matching(search)
	if offset >= len(matched) {
		return []types.RecordSummary{}, nil
	}
	end := min(offset+limit, len(matched))
	return matched[offset:end], nil
}

// matching returns summaries ordered like the postgres repository: newest
// receipt date first, then highest order id.
func (r *MemoryRepository) matching(search string) []types.RecordSummary {
	r.mu.RLock()
	out := make([]types.RecordSummary, 0, len(r.rows))
	for _, stored := range r.rows {
		summary := stored.Record.Summary()
		summary.Status = stored.Status
		if summary.Matches(search) {
			out = append(out, summary)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})
	return out
}
