package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	_, err = parseID("65f1c0ffee")
	assert.Error(t, err)
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := embedMigrations.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "00001_login_audit_logs.sql", entries[0].Name())
}
