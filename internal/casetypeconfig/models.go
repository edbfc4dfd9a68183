// Package casetypeconfig holds the local overlays on remote case and status
// types: whether status changes of a case type are notified, and the status
// indicator shown to citizens.
package casetypeconfig

import (
	"github.com/google/uuid"
)

// ZaakTypeConfig is keyed by (CatalogusURL, Identificatie). An empty
// CatalogusURL matches the identificatie in any catalogue.
type ZaakTypeConfig struct {
	ID                  uuid.UUID
	CatalogusURL        string
	Identificatie       string
	Omschrijving        string
	NotifyStatusChanges bool
}

// StatusIndicator marks how prominently a status is shown.
type StatusIndicator string

const (
	StatusIndicatorNone    StatusIndicator = ""
	StatusIndicatorInfo    StatusIndicator = "info"
	StatusIndicatorWarning StatusIndicator = "warning"
	StatusIndicatorSuccess StatusIndicator = "success"
	StatusIndicatorFailure StatusIndicator = "failure"
)

// Valid reports whether i is a known indicator.
func (i StatusIndicator) Valid() bool {
	switch i {
	case StatusIndicatorNone, StatusIndicatorInfo, StatusIndicatorWarning, StatusIndicatorSuccess, StatusIndicatorFailure:
		return true
	}
	return false
}

// StatusTypeConfig is keyed by (ZaakTypeConfigID, StatusTypeURL).
type StatusTypeConfig struct {
	ID                  uuid.UUID
	ZaakTypeConfigID    uuid.UUID
	StatusTypeURL       string
	Omschrijving        string
	StatusIndicator     StatusIndicator
	StatusIndicatorText string
}
