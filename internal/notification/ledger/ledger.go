// Package ledger records which (user, case, status) notifications were
// delivered. A key is recorded at most once; entries are never updated or
// removed. Uniqueness is enforced by the backing store, so several
// instances of the service can share one ledger.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidKey is returned when a key component is the nil UUID.
var ErrInvalidKey = errors.New("invalid ledger key")

// Ledger is the insert-if-absent contract shared by all stores.
type Ledger interface {
	// RecordIfUnique stores the key and returns true, or returns false when
	// the key was recorded before.
	RecordIfUnique(ctx context.Context, userID, caseUUID, statusUUID uuid.UUID) (bool, error)
}

// Key identifies one delivered notification.
type Key struct {
	UserID     uuid.UUID
	CaseUUID   uuid.UUID
	StatusUUID uuid.UUID
}

func (k Key) validate() error {
	switch {
	case k.UserID == uuid.Nil:
		return fmt.Errorf("%w: user id is empty", ErrInvalidKey)
	case k.CaseUUID == uuid.Nil:
		return fmt.Errorf("%w: case uuid is empty", ErrInvalidKey)
	case k.StatusUUID == uuid.Nil:
		return fmt.Errorf("%w: status uuid is empty", ErrInvalidKey)
	}
	return nil
}

func (k Key) String() string {
	return k.UserID.String() + ":" + k.CaseUUID.String() + ":" + k.StatusUUID.String()
}
