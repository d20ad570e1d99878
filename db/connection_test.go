package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Run("opens database with pragmas applied", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")

		conn, err := Open(dbPath, nil)
		require.NoError(t, err)
		require.NotNil(t, conn)
		defer conn.Close()

		var journalMode string
		err = conn.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		assert.Equal(t, "wal", journalMode)

		var foreignKeys int
		err = conn.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys)
		require.NoError(t, err)
		assert.Equal(t, 1, foreignKeys)
	})
}

func TestIsConstraintViolation(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	conn, err := Open(dbPath, nil)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Exec("CREATE TABLE owners (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	_, err = conn.Exec("CREATE TABLE deps (owner_id INTEGER, FOREIGN KEY (owner_id) REFERENCES owners(id))")
	require.NoError(t, err)

	_, err = conn.Exec("INSERT INTO deps (owner_id) VALUES (99)")
	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err))

	assert.False(t, IsConstraintViolation(nil))
}
