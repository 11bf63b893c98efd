// Package postgres opens gorm handles on PostgreSQL through pgx.
package postgres

import (
	"context"
	"database/sql"
	"net"
	"time"

	errors "github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	_ "github.com/jackc/pgx/v5/stdlib"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Laisky/attachment-service/library/db"
)

// DialInfo postgres dial info
type DialInfo struct {
	Addr,
	DBName,
	User,
	Pwd string
}

const defaultPort = "5432"

// BuildDSN builds a PostgreSQL DSN. Addr is `host` or `host:port`.
func BuildDSN(dialInfo DialInfo) string {
	host, port := dialInfo.Addr, defaultPort
	if h, p, err := net.SplitHostPort(dialInfo.Addr); err == nil {
		host, port = h, p
	}

	return "host=" + host + " user=" + dialInfo.User + " password=" + dialInfo.Pwd + " dbname=" + dialInfo.DBName + " port=" + port + " sslmode=disable TimeZone=UTC"
}

// NewDB create a new postgres db
func NewDB(ctx context.Context, dialInfo DialInfo, logger logSDK.Logger) (*gorm.DB, error) {
	sqlDB, err := sql.Open("pgx", BuildDSN(dialInfo))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err = sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}

	// config db
	sqlDB.SetMaxIdleConns(6)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	gdb, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB}), db.NewGormConfig(logger))
	if err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "open gorm postgres")
	}

	return gdb, nil
}
