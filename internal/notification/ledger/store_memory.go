package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"caseflow/pkg/requestcontext"
)

// InMemory keeps the ledger in a map. It only deduplicates within one
// process and is meant for tests and local runs.
type InMemory struct {
	mu      sync.Mutex
	entries map[Key]time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{entries: make(map[Key]time.Time)}
}

func (s *InMemory) RecordIfUnique(ctx context.Context, userID, caseUUID, statusUUID uuid.UUID) (bool, error) {
	key := Key{UserID: userID, CaseUUID: caseUUID, StatusUUID: statusUUID}
	if err := key.validate(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; ok {
		return false, nil
	}
	s.entries[key] = requestcontext.Now(ctx)
	return true, nil
}

// Len returns the number of recorded entries.
func (s *InMemory) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RecordedAt returns when key was recorded.
func (s *InMemory) RecordedAt(key Key) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.entries[key]
	return t, ok
}
