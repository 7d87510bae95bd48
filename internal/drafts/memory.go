package drafts

import (
	"context"
	"sync"
	"time"

	"recepcion/pkg/types"
)

type memoryEntry struct {
	draft   Draft
	expires time.Time
}

// MemoryStore is a single-process Store. Expired drafts are dropped lazily.
type MemoryStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	drafts map[string]memoryEntry
	locks  map[string]bool
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:    ttl,
		now:    time.Now,
		drafts: make(map[string]memoryEntry),
		locks:  make(map[string]bool),
	}
}

func (s *MemoryStore) Save(ctx context.Context, draft *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts[draft.Token] = memoryEntry{draft: *draft, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, token string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.drafts[token]
	if !ok {
		return nil, types.ErrDraftNotFound
	}
	if s.ttl > 0 && s.now().After(entry.expires) {
		delete(s.drafts, token)
		return nil, types.ErrDraftNotFound
	}

	draft := entry.draft
	return &draft, nil
}

func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, token)
	return nil
}

func (s *MemoryStore) Lock(ctx context.Context, token string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locks[token] {
		return nil, types.ErrDraftLocked
	}
	s.locks[token] = true

	return func() {
		s.mu.Lock()
		delete(s.locks, token)
		s.mu.Unlock()
	}, nil
}
