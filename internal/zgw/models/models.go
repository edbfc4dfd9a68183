// Package models holds the ZGW resources this service consumes. Only the fields
// that are actually read are modelled; everything else in the remote payload is
// ignored on decode.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Date is a calendar date as used by ZGW ("2024-03-01").
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode date: %w", err)
	}
	if s == nil || *s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return fmt.Errorf("decode date: %w", err)
	}
	d.Time = t
	return nil
}

// Case is a zaak.
type Case struct {
	URL             string          `json:"url"`
	UUID            uuid.UUID       `json:"uuid"`
	Identificatie   string          `json:"identificatie"`
	Omschrijving    string          `json:"omschrijving"`
	Type            Ref[CaseType]   `json:"zaaktype"`
	Status          Ref[Status]     `json:"status"`
	Result          Ref[Resultaat]  `json:"resultaat"`
	StartDate       Date            `json:"startdatum"`
	Confidentiality Confidentiality `json:"vertrouwelijkheidaanduiding"`
}

// CaseType is a zaaktype from the catalogi API.
type CaseType struct {
	URL                     string          `json:"url"`
	Catalogus               string          `json:"catalogus"`
	Identificatie           string          `json:"identificatie"`
	Omschrijving            string          `json:"omschrijving"`
	IndicatieInternOfExtern string          `json:"indicatieInternOfExtern"`
	Confidentiality         Confidentiality `json:"vertrouwelijkheidaanduiding"`
}

// External case types are the only ones shown to citizens.
const IndicatieExtern = "extern"

// StatusType is a statustype from the catalogi API.
type StatusType struct {
	URL          string `json:"url"`
	Omschrijving string `json:"omschrijving"`
	Volgnummer   int    `json:"volgnummer"`
	IsEindstatus bool   `json:"isEindstatus"`
	Informeren   bool   `json:"informeren"`
}

// Status is one status a case has been in.
type Status struct {
	URL              string          `json:"url"`
	UUID             uuid.UUID       `json:"uuid"`
	Zaak             string          `json:"zaak"`
	StatusType       Ref[StatusType] `json:"statustype"`
	DatumStatusGezet time.Time       `json:"datumStatusGezet"`
	Toelichting      string          `json:"statustoelichting"`
}

// Resultaat is the outcome registered on a closed case.
type Resultaat struct {
	URL           string             `json:"url"`
	UUID          uuid.UUID          `json:"uuid"`
	Zaak          string             `json:"zaak"`
	ResultaatType Ref[ResultaatType] `json:"resultaattype"`
	Toelichting   string             `json:"toelichting"`
}

// ResultaatType is a resultaattype from the catalogi API.
type ResultaatType struct {
	URL          string `json:"url"`
	Omschrijving string `json:"omschrijving"`
	Toelichting  string `json:"toelichting"`
}
