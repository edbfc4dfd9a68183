package cases

import "caseflow/internal/zgw/models"

// IsVisible reports whether a citizen may see the case: its type must be
// resolved and external, and its confidentiality must not exceed max.
func IsVisible(c *models.Case, max models.Confidentiality) bool {
	ct, ok := c.Type.Object()
	if !ok {
		return false
	}
	if ct.IndicatieInternOfExtern != models.IndicatieExtern {
		return false
	}
	return c.Confidentiality.AllowedUnder(max)
}
