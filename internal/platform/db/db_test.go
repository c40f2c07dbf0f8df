package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network.db")
	conn, err := OpenDriver("sqlite3", "", path)
	require.NoError(t, err)
	defer conn.Close()

	var mode string
	require.NoError(t, conn.QueryRowContext(context.Background(), "PRAGMA journal_mode;").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestOpenDriverRejectsUnknown(t *testing.T) {
	_, err := OpenDriver("mysql", "", "")
	assert.ErrorContains(t, err, `unsupported driver "mysql"`)
}
