package casetypeconfig

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type zaakTypeKey struct {
	catalogURL    string
	identificatie string
}

type statusTypeKey struct {
	zaakTypeConfigID uuid.UUID
	statusTypeURL    string
}

// InMemory is a Store for tests and single-process development.
type InMemory struct {
	mu          sync.RWMutex
	zaakTypes   map[zaakTypeKey]ZaakTypeConfig
	statusTypes map[statusTypeKey]StatusTypeConfig
}

func NewInMemory() *InMemory {
	return &InMemory{
		zaakTypes:   make(map[zaakTypeKey]ZaakTypeConfig),
		statusTypes: make(map[statusTypeKey]StatusTypeConfig),
	}
}

func (s *InMemory) FindZaakTypeConfig(_ context.Context, catalogURL, identificatie string) (*ZaakTypeConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cfg, ok := s.zaakTypes[zaakTypeKey{catalogURL, identificatie}]; ok {
		return &cfg, nil
	}
	return nil, ErrNotFound
}

func (s *InMemory) FindStatusTypeConfig(_ context.Context, zaakTypeConfigID uuid.UUID, statusTypeURL string) (*StatusTypeConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cfg, ok := s.statusTypes[statusTypeKey{zaakTypeConfigID, statusTypeURL}]; ok {
		return &cfg, nil
	}
	return nil, ErrNotFound
}

func (s *InMemory) SaveZaakTypeConfig(_ context.Context, cfg *ZaakTypeConfig) error {
	if cfg == nil || cfg.Identificatie == "" {
		return fmt.Errorf("save zaak type config: identificatie is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := zaakTypeKey{cfg.CatalogusURL, cfg.Identificatie}
	if existing, ok := s.zaakTypes[key]; ok {
		cfg.ID = existing.ID
	} else if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	s.zaakTypes[key] = *cfg
	return nil
}

func (s *InMemory) SaveStatusTypeConfig(_ context.Context, cfg *StatusTypeConfig) error {
	if cfg == nil || cfg.StatusTypeURL == "" || cfg.ZaakTypeConfigID == uuid.Nil {
		return fmt.Errorf("save status type config: zaak type config and status type url are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := statusTypeKey{cfg.ZaakTypeConfigID, cfg.StatusTypeURL}
	if existing, ok := s.statusTypes[key]; ok {
		cfg.ID = existing.ID
	} else if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	s.statusTypes[key] = *cfg
	return nil
}
