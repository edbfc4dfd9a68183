package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsCreateEveryTable(t *testing.T) {
	body, err := fs.ReadFile(Migrations(), "00001_initial.sql")
	require.NoError(t, err)

	sql := string(body)
	assert.True(t, strings.HasPrefix(sql, "-- +goose Up"))
	for _, table := range []string{
		"users",
		"zaak_type_configs",
		"status_type_configs",
		"user_case_status_notifications",
		"system_log",
	} {
		assert.Contains(t, sql, "CREATE TABLE "+table+" (")
		assert.Contains(t, sql, "DROP TABLE "+table+";")
	}
	assert.Contains(t, sql, "PRIMARY KEY (user_id, case_uuid, status_uuid)")
}
