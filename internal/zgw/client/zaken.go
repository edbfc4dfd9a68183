package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"caseflow/internal/zgw/models"
)

const bsnRoleFilter = "rol__betrokkeneIdentificatie__natuurlijkPersoon__inpBsn"

type zakenHTTP struct {
	root      string
	fetcher   *fetcher
	transport *http.Transport
}

func (z *zakenHTTP) FetchCase(ctx context.Context, caseURL string) (*models.Case, error) {
	return z.fetchCase(ctx, caseURL, true)
}

func (z *zakenHTTP) FetchCaseUncached(ctx context.Context, caseURL string) (*models.Case, error) {
	return z.fetchCase(ctx, caseURL, false)
}

func (z *zakenHTTP) fetchCase(ctx context.Context, caseURL string, cached bool) (*models.Case, error) {
	var c models.Case
	if err := z.fetcher.get(ctx, caseURL, cached, &c); err != nil {
		return nil, fmt.Errorf("fetch case: %w", err)
	}
	return &c, nil
}

func (z *zakenHTTP) FetchStatus(ctx context.Context, statusURL string) (*models.Status, error) {
	var s models.Status
	if err := z.fetcher.get(ctx, statusURL, true, &s); err != nil {
		return nil, fmt.Errorf("fetch status: %w", err)
	}
	return &s, nil
}

func (z *zakenHTTP) FetchResult(ctx context.Context, resultURL string) (*models.Resultaat, error) {
	var r models.Resultaat
	if err := z.fetcher.get(ctx, resultURL, true, &r); err != nil {
		return nil, fmt.Errorf("fetch result: %w", err)
	}
	return &r, nil
}

// FetchRoles lists every role of the case, following pagination.
func (z *zakenHTTP) FetchRoles(ctx context.Context, caseURL string) ([]models.Role, error) {
	q := url.Values{"zaak": {caseURL}}
	roles, err := list[models.Role](ctx, z.fetcher, z.root+"/rollen?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch roles: %w", err)
	}
	return roles, nil
}

// ListCasesForBSN lists the cases in which the citizen has a role.
func (z *zakenHTTP) ListCasesForBSN(ctx context.Context, bsn string) ([]*models.Case, error) {
	q := url.Values{bsnRoleFilter: {bsn}}
	found, err := list[*models.Case](ctx, z.fetcher, z.root+"/zaken?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	return found, nil
}

func (z *zakenHTTP) Close() error {
	z.transport.CloseIdleConnections()
	return nil
}
