package models

// RoleDescription is the generic role description (omschrijvingGeneriek).
type RoleDescription string

const (
	RoleInitiator       RoleDescription = "initiator"
	RoleMedeInitiator   RoleDescription = "mede_initiator"
	RoleBehandelaar     RoleDescription = "behandelaar"
	RoleBelanghebbende  RoleDescription = "belanghebbende"
	RoleKlantcontacter  RoleDescription = "klantcontacter"
	RoleZaakcoordinator RoleDescription = "zaakcoordinator"
	RoleAdviseur        RoleDescription = "adviseur"
	RoleBeslisser       RoleDescription = "beslisser"
)

// PartyType is the betrokkeneType of a role.
type PartyType string

const (
	PartyNaturalPerson      PartyType = "natuurlijk_persoon"
	PartyNonNaturalPerson   PartyType = "niet_natuurlijk_persoon"
	PartyBranch             PartyType = "vestiging"
	PartyOrganisationalUnit PartyType = "organisatorische_eenheid"
	PartyEmployee           PartyType = "medewerker"
)

// PartyIdentification carries the identifying fields of a betrokkene. Only
// the BSN of natural persons is used.
type PartyIdentification struct {
	BSN string `json:"inpBsn"`
}

// ContactPerson is the optional contactpersoonRol of a role.
type ContactPerson struct {
	Email string `json:"emailadres"`
	Phone string `json:"telefoonnummer"`
	Name  string `json:"naam"`
}

// Role relates a case to a party.
type Role struct {
	URL                     string               `json:"url"`
	Zaak                    string               `json:"zaak"`
	PartyType               PartyType            `json:"betrokkeneType"`
	Description             RoleDescription      `json:"omschrijvingGeneriek"`
	BetrokkeneIdentificatie *PartyIdentification `json:"betrokkeneIdentificatie"`
	Contact                 *ContactPerson       `json:"contactpersoonRol"`
}

// BSN returns the national identifier, empty when the role carries none.
func (r Role) BSN() string {
	if r.BetrokkeneIdentificatie == nil {
		return ""
	}
	return r.BetrokkeneIdentificatie.BSN
}

// IsInitiator reports whether the role is an initiator or co-initiator.
func (r Role) IsInitiator() bool {
	return r.Description == RoleInitiator || r.Description == RoleMedeInitiator
}
