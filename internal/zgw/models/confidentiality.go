package models

import "strings"

// Confidentiality is a vertrouwelijkheidaanduiding, an ordered classification.
type Confidentiality string

const (
	ConfidentialityOpenbaar          Confidentiality = "openbaar"
	ConfidentialityBeperktOpenbaar   Confidentiality = "beperkt_openbaar"
	ConfidentialityIntern            Confidentiality = "intern"
	ConfidentialityZaakvertrouwelijk Confidentiality = "zaakvertrouwelijk"
	ConfidentialityVertrouwelijk     Confidentiality = "vertrouwelijk"
	ConfidentialityConfidentieel     Confidentiality = "confidentieel"
	ConfidentialityGeheim            Confidentiality = "geheim"
	ConfidentialityZeerGeheim        Confidentiality = "zeer_geheim"
)

var confidentialityOrder = []Confidentiality{
	ConfidentialityOpenbaar,
	ConfidentialityBeperktOpenbaar,
	ConfidentialityIntern,
	ConfidentialityZaakvertrouwelijk,
	ConfidentialityVertrouwelijk,
	ConfidentialityConfidentieel,
	ConfidentialityGeheim,
	ConfidentialityZeerGeheim,
}

// Rank is the position in the ordering. Unknown levels rank above every known
// level so they are never considered visible.
func (c Confidentiality) Rank() int {
	for i, level := range confidentialityOrder {
		if level == c {
			return i
		}
	}
	return len(confidentialityOrder)
}

// Valid reports whether c is one of the known levels.
func (c Confidentiality) Valid() bool {
	return c.Rank() < len(confidentialityOrder)
}

// AllowedUnder reports whether c does not exceed max.
func (c Confidentiality) AllowedUnder(max Confidentiality) bool {
	return c.Valid() && c.Rank() <= max.Rank()
}

// ParseConfidentiality normalises configuration input ("Beperkt Openbaar",
// "beperkt-openbaar") to a known level.
func ParseConfidentiality(s string) (Confidentiality, bool) {
	normalised := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	c := Confidentiality(normalised)
	return c, c.Valid()
}
