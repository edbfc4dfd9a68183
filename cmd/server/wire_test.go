package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseflow/internal/casetypeconfig"
	"caseflow/internal/notification/ledger"
	"caseflow/internal/platform/config"
	"caseflow/pkg/email"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func memoryConfig(t *testing.T) config.Config {
	t.Helper()
	t.Setenv("ZGW_ZAKEN_ROOT", "https://zaken.test/api/v1")
	t.Setenv("ZGW_CATALOGI_ROOT", "https://catalogi.test/api/v1")
	t.Setenv("LEDGER_BACKEND", config.LedgerMemory)
	cfg, err := config.FromEnv()
	require.NoError(t, err)
	cfg.Database.URL = ""
	cfg.Redis.URL = ""
	cfg.Kafka.Brokers = nil
	cfg.SMTP = config.SMTP{}
	cfg.CaseTypeConfig = ""
	cfg.Notifications.LedgerBackend = config.LedgerMemory
	return cfg
}

func TestBuildInMemory(t *testing.T) {
	a, err := build(context.Background(), memoryConfig(t), discard())
	require.NoError(t, err)
	defer a.close()
	assert.Nil(t, a.consumer)

	for path, want := range map[string]int{
		"/healthz":               http.StatusOK,
		"/metrics":               http.StatusOK,
		"/api/cases?bsn=invalid": http.StatusBadRequest,
	} {
		rr := httptest.NewRecorder()
		a.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rr.Code, path)
		assert.NotEmpty(t, rr.Header().Get("X-Request-Id"), path)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rr.Body.String(), "caseflow_build_info")
}

func TestBuildRejectsUnknownConfidentiality(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Cases.MaxConfidentiality = "topgeheim"
	_, err := build(context.Background(), cfg, discard())
	assert.ErrorContains(t, err, "ZAAK_MAX_CONFIDENTIALITY")
}

func TestBuildLedger(t *testing.T) {
	store, err := buildLedger(config.LedgerMemory, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &ledger.InMemory{}, store)

	_, err = buildLedger("etcd", nil, nil)
	assert.Error(t, err)
}

func TestBuildSenderWithoutSMTPLogs(t *testing.T) {
	sender, err := buildSender(config.SMTP{}, discard())
	require.NoError(t, err)
	assert.IsType(t, &email.LogSender{}, sender)
}

func TestSeedConfigs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "case_types.yaml")
	require.NoError(t, os.WriteFile(path, []byte("zaak_types:\n  - identificatie: ZT-1\n    notify_status_changes: true\n"), 0o600))

	store := casetypeconfig.NewInMemory()
	require.NoError(t, seedConfigs(context.Background(), path, nil, store, discard()))

	cfg, err := store.FindZaakTypeConfig(context.Background(), "", "ZT-1")
	require.NoError(t, err)
	assert.True(t, cfg.NotifyStatusChanges)

	assert.NoError(t, seedConfigs(context.Background(), "", nil, store, discard()))
	assert.Error(t, seedConfigs(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"), nil, store, discard()))
}
