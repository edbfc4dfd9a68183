package casetypeconfig

import (
	"context"

	"github.com/google/uuid"

	"caseflow/pkg/platform/sentinel"
)

// ErrNotFound is returned when no configuration matches.
var ErrNotFound = sentinel.ErrNotFound

// Store reads and writes case type overlays.
type Store interface {
	// FindZaakTypeConfig matches catalogURL exactly. A config without a
	// catalogue only matches a case type without one.
	FindZaakTypeConfig(ctx context.Context, catalogURL, identificatie string) (*ZaakTypeConfig, error)
	FindStatusTypeConfig(ctx context.Context, zaakTypeConfigID uuid.UUID, statusTypeURL string) (*StatusTypeConfig, error)
	// SaveZaakTypeConfig inserts or replaces by key; the stored ID is kept on replace.
	SaveZaakTypeConfig(ctx context.Context, cfg *ZaakTypeConfig) error
	SaveStatusTypeConfig(ctx context.Context, cfg *StatusTypeConfig) error
}
