package dao

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	librarydb "github.com/Laisky/attachment-service/library/db"
	"github.com/Laisky/attachment-service/library/log"
)

// newTestDB creates a migrated in-memory sqlite database.
func newTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s-%d?mode=memory&cache=shared", t.Name(), time.Now().UTC().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), librarydb.NewGormConfig(log.Logger.Named("test")))
	require.NoError(t, err)
	require.NoError(t, RunMigrations(context.Background(), db, log.Logger.Named("test")))
	return db
}

// newTestDAO wraps a fresh sqlite database.
func newTestDAO(t *testing.T) *DB {
	d, err := NewDB(newTestDB(t), log.Logger.Named("test"))
	require.NoError(t, err)
	return d
}
