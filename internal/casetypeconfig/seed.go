package casetypeconfig

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed is the YAML document used to provision overlays at startup.
type Seed struct {
	ZaakTypes []SeedZaakType `yaml:"zaak_types"`
}

type SeedZaakType struct {
	CatalogusURL        string           `yaml:"catalogus_url"`
	Identificatie       string           `yaml:"identificatie"`
	Omschrijving        string           `yaml:"omschrijving"`
	NotifyStatusChanges bool             `yaml:"notify_status_changes"`
	StatusTypes         []SeedStatusType `yaml:"status_types"`
}

type SeedStatusType struct {
	StatusTypeURL       string          `yaml:"statustype_url"`
	Omschrijving        string          `yaml:"omschrijving"`
	StatusIndicator     StatusIndicator `yaml:"status_indicator"`
	StatusIndicatorText string          `yaml:"status_indicator_text"`
}

// LoadSeed decodes and validates a seed document.
func LoadSeed(r io.Reader) (*Seed, error) {
	var seed Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode case type seed: %w", err)
	}
	if err := seed.validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

// LoadSeedFile reads a seed document from path.
func LoadSeedFile(path string) (*Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open case type seed: %w", err)
	}
	defer f.Close()
	return LoadSeed(f)
}

func (s *Seed) validate() error {
	for i, zt := range s.ZaakTypes {
		if zt.Identificatie == "" {
			return fmt.Errorf("case type seed: zaak_types[%d]: identificatie is required", i)
		}
		for j, st := range zt.StatusTypes {
			if st.StatusTypeURL == "" {
				return fmt.Errorf("case type seed: zaak_types[%d].status_types[%d]: statustype_url is required", i, j)
			}
			if !st.StatusIndicator.Valid() {
				return fmt.Errorf("case type seed: zaak_types[%d].status_types[%d]: unknown status_indicator %q", i, j, st.StatusIndicator)
			}
		}
	}
	return nil
}

// Apply upserts every entry into store. Entries already present are updated.
func (s *Seed) Apply(ctx context.Context, store Store) error {
	for _, zt := range s.ZaakTypes {
		cfg := &ZaakTypeConfig{
			CatalogusURL:        zt.CatalogusURL,
			Identificatie:       zt.Identificatie,
			Omschrijving:        zt.Omschrijving,
			NotifyStatusChanges: zt.NotifyStatusChanges,
		}
		if err := store.SaveZaakTypeConfig(ctx, cfg); err != nil {
			return fmt.Errorf("apply case type seed: %w", err)
		}
		for _, st := range zt.StatusTypes {
			stc := &StatusTypeConfig{
				ZaakTypeConfigID:    cfg.ID,
				StatusTypeURL:       st.StatusTypeURL,
				Omschrijving:        st.Omschrijving,
				StatusIndicator:     st.StatusIndicator,
				StatusIndicatorText: st.StatusIndicatorText,
			}
			if err := store.SaveStatusTypeConfig(ctx, stc); err != nil {
				return fmt.Errorf("apply case type seed: %w", err)
			}
		}
	}
	return nil
}
