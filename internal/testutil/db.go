// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/store/internal/database"
)

// NewDB returns a migrated, private in-memory SQLite database closed at test cleanup.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "sqlite://file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := database.Open(dsn, logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(conn))

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}
