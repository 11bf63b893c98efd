package cmd

import (
	"strings"
	"time"

	gconfig "github.com/Laisky/go-config/v2"

	"github.com/Laisky/attachment-service/internal/attachment/controller"
	"github.com/Laisky/attachment-service/internal/attachment/service"
	"github.com/Laisky/attachment-service/internal/web"
)

const (
	dbTypePostgres = "postgres"
	dbTypeSqlite   = "sqlite"
)

// settings is the typed view of the loaded configuration.
type settings struct {
	DBType     string
	SqlitePath string
	Postgres   struct {
		Addr, DB, User, Pwd string
	}
	Redis struct {
		Addr, Pwd string
		DB        int
	}
	S3 struct {
		Endpoint, AccessKey, Secret, Bucket, Prefix string
		UseSSL                                      bool
	}
	CacheTTL        time.Duration
	MaxPayloadBytes int64
	Web             web.Options
}

// loadSettings reads the shared config, falling back to defaults for unset keys.
func loadSettings() settings {
	var s settings
	s.DBType = normalizeDBType(gconfig.S.GetString("settings.db.type"))
	s.SqlitePath = gconfig.S.GetString("settings.db.sqlite.path")

	s.Postgres.Addr = gconfig.S.GetString("settings.db.postgres.addr")
	s.Postgres.DB = gconfig.S.GetString("settings.db.postgres.db")
	s.Postgres.User = gconfig.S.GetString("settings.db.postgres.user")
	s.Postgres.Pwd = gconfig.S.GetString("settings.db.postgres.pwd")

	s.Redis.Addr = gconfig.S.GetString("settings.db.redis.addr")
	s.Redis.Pwd = gconfig.S.GetString("settings.db.redis.pwd")
	s.Redis.DB = gconfig.S.GetInt("settings.db.redis.db")

	s.S3.Endpoint = strings.TrimSpace(gconfig.S.GetString("settings.s3.endpoint"))
	s.S3.AccessKey = gconfig.S.GetString("settings.s3.access_key")
	s.S3.Secret = gconfig.S.GetString("settings.s3.secret")
	s.S3.Bucket = gconfig.S.GetString("settings.s3.bucket")
	s.S3.Prefix = gconfig.S.GetString("settings.s3.prefix")
	s.S3.UseSSL = gconfig.S.GetBool("settings.s3.use_ssl")

	s.CacheTTL = service.DefaultCacheTTL
	if ttl := gconfig.S.GetInt("settings.attachments.cache_ttl_seconds"); ttl > 0 {
		s.CacheTTL = time.Duration(ttl) * time.Second
	}
	s.MaxPayloadBytes = controller.DefaultMaxPayloadBytes
	if limit := int64(gconfig.S.GetInt("settings.attachments.max_payload_bytes")); limit > 0 {
		s.MaxPayloadBytes = limit
	}

	s.Web = web.Options{
		Addr:           gconfig.S.GetString("listen"),
		CORSOrigins:    gconfig.S.GetStringSlice("settings.web.cors_origins"),
		RequestTimeout: web.DefaultRequestTimeout,
		Debug:          gconfig.S.GetBool("debug"),
	}
	if ms := gconfig.S.GetInt("settings.web.request_timeout_ms"); ms > 0 {
		s.Web.RequestTimeout = time.Duration(ms) * time.Millisecond
	}

	return s
}

// normalizeDBType maps an empty type to postgres.
func normalizeDBType(dbType string) string {
	dbType = strings.ToLower(strings.TrimSpace(dbType))
	if dbType == "" {
		return dbTypePostgres
	}
	return dbType
}
