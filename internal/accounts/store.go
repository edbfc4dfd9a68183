package accounts

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"caseflow/pkg/platform/sentinel"
)

var ErrNotFound = sentinel.ErrNotFound

// InMemory is a user directory for tests and single-process development.
type InMemory struct {
	mu    sync.RWMutex
	users map[uuid.UUID]User
}

func NewInMemory() *InMemory {
	return &InMemory{users: make(map[uuid.UUID]User)}
}

// Save inserts or replaces the user by ID, assigning one when missing.
func (s *InMemory) Save(_ context.Context, u *User) error {
	if u == nil || u.BSN == "" {
		return fmt.Errorf("save user: bsn is required")
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.users {
		if existing.BSN == u.BSN && id != u.ID {
			return fmt.Errorf("save user: bsn already registered: %w", sentinel.ErrConflict)
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *InMemory) FindByBSN(_ context.Context, bsn string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.BSN == bsn {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// FindNotifiableByBSNs returns the active users with a usable email among
// bsns, ordered by BSN.
func (s *InMemory) FindNotifiableByBSNs(_ context.Context, bsns []string) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*User
	for _, u := range s.users {
		if slices.Contains(bsns, u.BSN) && u.Notifiable() {
			out = append(out, &u)
		}
	}
	slices.SortFunc(out, func(a, b *User) int { return strings.Compare(a.BSN, b.BSN) })
	return out, nil
}
