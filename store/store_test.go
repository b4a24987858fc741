package store_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/amestri/formbox/config"
	"github.com/amestri/formbox/database"
	"github.com/stretchr/testify/require"
)

// setupDB opens a throwaway sqlite database with the real migrations
// applied.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := config.Config{DBPath: filepath.Join(t.TempDir(), "formbox_test.sqlite")}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}
