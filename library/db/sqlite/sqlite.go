// Package sqlite opens gorm handles on a local SQLite file.
package sqlite

import (
	"context"
	"strings"

	errors "github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	gormSqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Laisky/attachment-service/library/db"
)

// NewDB opens the sqlite database at path.
//
// SQLite allows a single writer, the pool is pinned to one connection so
// concurrent transactions queue instead of failing with SQLITE_BUSY.
func NewDB(ctx context.Context, path string, logger logSDK.Logger) (*gorm.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	gdb, err := gorm.Open(gormSqlite.Open(path), db.NewGormConfig(logger))
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite %q", path)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sqlite pool")
	}
	sqlDB.SetMaxOpenConns(1)

	if err = sqlDB.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "ping sqlite")
	}

	return gdb, nil
}
