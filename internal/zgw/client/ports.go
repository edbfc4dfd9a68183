// Package client fetches ZGW resources from the Zaken and Catalogi APIs.
//
// Every fetch returns (*T, error). Transport, protocol, decode and not-found
// failures are all reported as errors wrapping sentinel.ErrUnavailable; callers
// log them and treat the resource as absent. Nothing in this package panics on
// remote input.
package client

import (
	"context"
	"errors"

	"caseflow/internal/zgw/models"
)

// ZakenClient reads cases and their sub-resources.
type ZakenClient interface {
	FetchCase(ctx context.Context, url string) (*models.Case, error)
	// FetchCaseUncached bypasses the response cache. Used where a stale case
	// could leak a confidentiality change.
	FetchCaseUncached(ctx context.Context, url string) (*models.Case, error)
	FetchStatus(ctx context.Context, url string) (*models.Status, error)
	FetchResult(ctx context.Context, url string) (*models.Resultaat, error)
	FetchRoles(ctx context.Context, caseURL string) ([]models.Role, error)
	ListCasesForBSN(ctx context.Context, bsn string) ([]*models.Case, error)
	Close() error
}

// CatalogiClient reads case, status and result types.
type CatalogiClient interface {
	FetchCaseType(ctx context.Context, url string) (*models.CaseType, error)
	FetchStatusType(ctx context.Context, url string) (*models.StatusType, error)
	FetchResultType(ctx context.Context, url string) (*models.ResultaatType, error)
	Close() error
}

// Session pairs the two clients used for one unit of work. It must be closed
// when the work finishes, whatever the outcome.
type Session struct {
	Zaken    ZakenClient
	Catalogi CatalogiClient
}

// Close releases both clients.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.Zaken != nil {
		errs = append(errs, s.Zaken.Close())
	}
	if s.Catalogi != nil {
		errs = append(errs, s.Catalogi.Close())
	}
	return errors.Join(errs...)
}

// Group opens sessions.
type Group interface {
	Open(ctx context.Context) (*Session, error)
}
