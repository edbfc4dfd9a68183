package casetypeconfig

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	txcontext "caseflow/pkg/platform/tx"
)

// PostgresStore persists overlays in zaak_type_configs and status_type_configs.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) querier(ctx context.Context) dbQuerier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) FindZaakTypeConfig(ctx context.Context, catalogURL, identificatie string) (*ZaakTypeConfig, error) {
	const query = `
		SELECT id, catalogus_url, identificatie, omschrijving, notify_status_changes
		FROM zaak_type_configs
		WHERE identificatie = $1 AND catalogus_url = $2`

	var cfg ZaakTypeConfig
	err := s.querier(ctx).QueryRowContext(ctx, query, identificatie, catalogURL).Scan(
		&cfg.ID, &cfg.CatalogusURL, &cfg.Identificatie, &cfg.Omschrijving, &cfg.NotifyStatusChanges,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find zaak type config: %w", err)
	}
	return &cfg, nil
}

func (s *PostgresStore) FindStatusTypeConfig(ctx context.Context, zaakTypeConfigID uuid.UUID, statusTypeURL string) (*StatusTypeConfig, error) {
	const query = `
		SELECT id, zaak_type_config_id, statustype_url, omschrijving, status_indicator, status_indicator_text
		FROM status_type_configs
		WHERE zaak_type_config_id = $1 AND statustype_url = $2`

	var cfg StatusTypeConfig
	var indicator string
	err := s.querier(ctx).QueryRowContext(ctx, query, zaakTypeConfigID, statusTypeURL).Scan(
		&cfg.ID, &cfg.ZaakTypeConfigID, &cfg.StatusTypeURL, &cfg.Omschrijving, &indicator, &cfg.StatusIndicatorText,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find status type config: %w", err)
	}
	cfg.StatusIndicator = StatusIndicator(indicator)
	return &cfg, nil
}

func (s *PostgresStore) SaveZaakTypeConfig(ctx context.Context, cfg *ZaakTypeConfig) error {
	if cfg == nil || cfg.Identificatie == "" {
		return fmt.Errorf("save zaak type config: identificatie is required")
	}
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	const query = `
		INSERT INTO zaak_type_configs (id, catalogus_url, identificatie, omschrijving, notify_status_changes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (catalogus_url, identificatie) DO UPDATE
		SET omschrijving = EXCLUDED.omschrijving,
		    notify_status_changes = EXCLUDED.notify_status_changes
		RETURNING id`

	err := s.querier(ctx).QueryRowContext(ctx, query,
		cfg.ID, cfg.CatalogusURL, cfg.Identificatie, cfg.Omschrijving, cfg.NotifyStatusChanges,
	).Scan(&cfg.ID)
	if err != nil {
		return fmt.Errorf("save zaak type config: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveStatusTypeConfig(ctx context.Context, cfg *StatusTypeConfig) error {
	if cfg == nil || cfg.StatusTypeURL == "" || cfg.ZaakTypeConfigID == uuid.Nil {
		return fmt.Errorf("save status type config: zaak type config and status type url are required")
	}
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	const query = `
		INSERT INTO status_type_configs (id, zaak_type_config_id, statustype_url, omschrijving, status_indicator, status_indicator_text)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (zaak_type_config_id, statustype_url) DO UPDATE
		SET omschrijving = EXCLUDED.omschrijving,
		    status_indicator = EXCLUDED.status_indicator,
		    status_indicator_text = EXCLUDED.status_indicator_text
		RETURNING id`

	err := s.querier(ctx).QueryRowContext(ctx, query,
		cfg.ID, cfg.ZaakTypeConfigID, cfg.StatusTypeURL, cfg.Omschrijving, string(cfg.StatusIndicator), cfg.StatusIndicatorText,
	).Scan(&cfg.ID)
	if err != nil {
		return fmt.Errorf("save status type config: %w", err)
	}
	return nil
}
