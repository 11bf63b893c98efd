package cmd

import (
	"context"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Laisky/attachment-service/internal/attachment/controller"
	"github.com/Laisky/attachment-service/internal/attachment/dao"
	"github.com/Laisky/attachment-service/internal/attachment/service"
	"github.com/Laisky/attachment-service/library/db/minio"
	"github.com/Laisky/attachment-service/library/db/postgres"
	rediscli "github.com/Laisky/attachment-service/library/db/redis"
	"github.com/Laisky/attachment-service/library/db/sqlite"
	"github.com/Laisky/attachment-service/library/log"
)

// openDB connects to the configured database backend.
func openDB(ctx context.Context, s settings) (*gorm.DB, error) {
	logger := log.Logger.Named("db")

	switch s.DBType {
	case dbTypeSqlite:
		return sqlite.NewDB(ctx, s.SqlitePath, logger)
	case dbTypePostgres:
		return postgres.NewDB(ctx, postgres.DialInfo{
			Addr:   s.Postgres.Addr,
			DBName: s.Postgres.DB,
			User:   s.Postgres.User,
			Pwd:    s.Postgres.Pwd,
		}, logger)
	default:
		return nil, errors.Errorf("unsupported db type %q", s.DBType)
	}
}

// newContentCache returns nil when redis is not configured.
func newContentCache(ctx context.Context, s settings) (service.ContentCache, error) {
	if s.Redis.Addr == "" {
		log.Logger.Info("redis not configured, content cache disabled")
		return nil, nil
	}

	rdb := rediscli.NewDB(&redis.Options{
		Addr:     s.Redis.Addr,
		Password: s.Redis.Pwd,
		DB:       s.Redis.DB,
	})
	if err := rdb.Ping(ctx); err != nil {
		return nil, errors.Wrapf(err, "connect redis %s", s.Redis.Addr)
	}

	cache, err := service.NewRedisContentCache(rdb, s.CacheTTL)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	log.Logger.Info("content cache enabled",
		zap.String("addr", s.Redis.Addr),
		zap.Duration("ttl", s.CacheTTL))
	return cache, nil
}

// newContentMirror returns nil when no object store is configured.
func newContentMirror(s settings) (service.ContentMirror, error) {
	if s.S3.Endpoint == "" {
		log.Logger.Info("s3 not configured, content mirror disabled")
		return nil, nil
	}

	cli, err := minio.NewClient(minio.DialInfo{
		Endpoint:  s.S3.Endpoint,
		AccessKey: s.S3.AccessKey,
		Secret:    s.S3.Secret,
		UseSSL:    s.S3.UseSSL,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	mirror, err := service.NewMinioMirror(cli, s.S3.Bucket, s.S3.Prefix)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	log.Logger.Info("content mirror enabled",
		zap.String("endpoint", s.S3.Endpoint),
		zap.String("bucket", s.S3.Bucket))
	return mirror, nil
}

// newAttachmentController wires storage, cache and mirror into the HTTP controller.
func newAttachmentController(ctx context.Context, s settings) (*controller.Attachment, error) {
	db, err := openDB(ctx, s)
	if err != nil {
		return nil, errors.Wrap(err, "open db")
	}
	if err = dao.RunMigrations(ctx, db, log.Logger.Named("migration")); err != nil {
		return nil, errors.WithStack(err)
	}

	store, err := dao.NewDB(db, log.Logger.Named("attachment_dao"))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cache, err := newContentCache(ctx, s)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	mirror, err := newContentMirror(s)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	svc, err := service.NewService(store, cache, mirror, log.Logger.Named("attachment_service"))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return controller.NewAttachment(svc, s.MaxPayloadBytes)
}
