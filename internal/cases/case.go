// Package cases turns raw cases into display-ready ones: it resolves the
// linked catalogue and status resources in two bounded parallel phases,
// drops cases a citizen may not see, and attaches the local overlays.
package cases

import (
	"caseflow/internal/casetypeconfig"
	"caseflow/internal/zgw/models"
)

// Case is a case enriched for display. The embedded case is a copy owned
// by the batch that produced it.
type Case struct {
	*models.Case
	TypeConfig       *casetypeconfig.ZaakTypeConfig
	StatusTypeConfig *casetypeconfig.StatusTypeConfig
}

// ResolvedType returns the case type, nil when unresolved.
func (c *Case) ResolvedType() *models.CaseType {
	ct, _ := c.Type.Object()
	return ct
}

// ResolvedStatus returns the current status, nil when unresolved.
func (c *Case) ResolvedStatus() *models.Status {
	s, _ := c.Status.Object()
	return s
}

// ResolvedStatusType returns the type of the current status, nil when either
// is unresolved.
func (c *Case) ResolvedStatusType() *models.StatusType {
	s := c.ResolvedStatus()
	if s == nil {
		return nil
	}
	st, _ := s.StatusType.Object()
	return st
}

// ResolvedResult returns the result, nil when absent or unresolved.
func (c *Case) ResolvedResult() *models.Resultaat {
	r, _ := c.Result.Object()
	return r
}
