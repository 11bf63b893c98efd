package dao

import (
	"context"
	"strings"

	errors "github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"gorm.io/gorm"

	"github.com/Laisky/attachment-service/library/log"
)

// TableName is the attachments table.
const TableName = "attachments"

var postgresMigrations = []string{
	`CREATE TABLE IF NOT EXISTS attachments (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		size BIGINT NOT NULL,
		type TEXT NOT NULL,
		crc BIGINT NOT NULL,
		content BYTEA,
		content_version BIGINT NOT NULL DEFAULT 0,
		attachment_sequence BIGSERIAL NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attachments_sequence ON attachments (attachment_sequence DESC)`,
}

// sqlite only auto-increments an INTEGER PRIMARY KEY, so the sequence owns
// the primary key there and id is kept unique instead.
var sqliteMigrations = []string{
	`CREATE TABLE IF NOT EXISTS attachments (
		attachment_sequence INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		size INTEGER NOT NULL,
		type TEXT NOT NULL,
		crc INTEGER NOT NULL,
		content BLOB,
		content_version INTEGER NOT NULL DEFAULT 0
	)`,
}

// RunMigrations ensures the attachments table and its indexes exist.
func RunMigrations(ctx context.Context, db *gorm.DB, logger logSDK.Logger) error {
	if db == nil {
		return errors.New("gorm db is required")
	}
	if logger == nil {
		logger = log.Logger.Named("attachment_migration")
	}

	statements, err := migrationsFor(db)
	if err != nil {
		return errors.WithStack(err)
	}

	for _, stmt := range statements {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return errors.Wrap(err, "migrate attachments table")
		}
	}

	logger.Debug("attachment migrations completed", zap.String("dialect", db.Dialector.Name()))
	return nil
}

// migrationsFor picks the DDL matching the gorm dialector.
func migrationsFor(db *gorm.DB) ([]string, error) {
	switch {
	case isPostgresDialect(db):
		return postgresMigrations, nil
	case isSqliteDialect(db):
		return sqliteMigrations, nil
	default:
		return nil, errors.Errorf("unsupported dialect %q", dialectName(db))
	}
}

// isPostgresDialect reports whether the gorm dialector is Postgres.
func isPostgresDialect(db *gorm.DB) bool {
	return strings.EqualFold(dialectName(db), "postgres")
}

// isSqliteDialect reports whether the gorm dialector is SQLite.
func isSqliteDialect(db *gorm.DB) bool {
	return strings.EqualFold(dialectName(db), "sqlite")
}

func dialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return ""
	}
	return db.Dialector.Name()
}
