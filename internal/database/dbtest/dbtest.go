// Package dbtest opens migrated throwaway databases for tests.
package dbtest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fizato/federation/internal/database"
	"github.com/fizato/federation/internal/schema"
)

// New returns a private in-memory SQLite database with the full schema. It is
// closed when the test ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close(db)
	})

	require.NoError(t, schema.Migrate(db))
	return db
}
