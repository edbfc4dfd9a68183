package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"caseflow/internal/accounts"
	"caseflow/internal/zgw/models"
	"caseflow/pkg/platform/strings"
)

//go:generate mockgen -source=recipients.go -destination=mocks/recipients_mock.go -package=mocks UserDirectory

// UserDirectory finds users that may receive email.
type UserDirectory interface {
	// FindNotifiableByBSNs returns active users with one of the BSNs and a
	// verified, deliverable email address.
	FindNotifiableByBSNs(ctx context.Context, bsns []string) ([]*accounts.User, error)
}

// InitiatorBSNs returns the distinct BSNs of the natural persons that are
// (co-)initiator of the case, sorted.
func InitiatorBSNs(roles []models.Role) []string {
	bsns := make([]string, 0, len(roles))
	for _, role := range roles {
		if !role.IsInitiator() || role.PartyType != models.PartyNaturalPerson {
			continue
		}
		if bsn := role.BSN(); bsn != "" {
			bsns = append(bsns, bsn)
		}
	}
	return strings.SortedSet(bsns)
}

// Recipients resolves the users to notify about a case.
type Recipients struct {
	users UserDirectory
}

func NewRecipients(users UserDirectory) *Recipients {
	return &Recipients{users: users}
}

// Resolve returns the notifiable initiators among roles. No match is an
// empty result, not an error; an error means the directory failed.
func (r *Recipients) Resolve(ctx context.Context, roles []models.Role) ([]*accounts.User, error) {
	bsns := InitiatorBSNs(roles)
	if len(bsns) == 0 {
		return nil, nil
	}
	users, err := r.users.FindNotifiableByBSNs(ctx, bsns)
	if err != nil {
		return nil, fmt.Errorf("resolve recipients: %w", err)
	}
	notifiable := make([]*accounts.User, 0, len(users))
	seen := make(map[uuid.UUID]struct{}, len(users))
	for _, u := range users {
		if u == nil || !u.Notifiable() {
			continue
		}
		if _, dup := seen[u.ID]; dup {
			continue
		}
		seen[u.ID] = struct{}{}
		notifiable = append(notifiable, u)
	}
	return notifiable, nil
}
