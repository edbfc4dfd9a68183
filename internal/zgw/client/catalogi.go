package client

import (
	"context"
	"fmt"
	"net/http"

	"caseflow/internal/zgw/models"
)

// Catalogi data changes rarely and is cached with its own, longer TTL.
type catalogiHTTP struct {
	fetcher   *fetcher
	transport *http.Transport
}

func (c *catalogiHTTP) FetchCaseType(ctx context.Context, caseTypeURL string) (*models.CaseType, error) {
	var ct models.CaseType
	if err := c.fetcher.get(ctx, caseTypeURL, true, &ct); err != nil {
		return nil, fmt.Errorf("fetch case type: %w", err)
	}
	return &ct, nil
}

func (c *catalogiHTTP) FetchStatusType(ctx context.Context, statusTypeURL string) (*models.StatusType, error) {
	var st models.StatusType
	if err := c.fetcher.get(ctx, statusTypeURL, true, &st); err != nil {
		return nil, fmt.Errorf("fetch status type: %w", err)
	}
	return &st, nil
}

func (c *catalogiHTTP) FetchResultType(ctx context.Context, resultTypeURL string) (*models.ResultaatType, error) {
	var rt models.ResultaatType
	if err := c.fetcher.get(ctx, resultTypeURL, true, &rt); err != nil {
		return nil, fmt.Errorf("fetch result type: %w", err)
	}
	return &rt, nil
}

func (c *catalogiHTTP) Close() error {
	c.transport.CloseIdleConnections()
	return nil
}
