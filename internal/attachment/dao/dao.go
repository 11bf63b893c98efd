package dao

import (
	"context"
	"database/sql"

	errors "github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Laisky/attachment-service/internal/attachment/model"
	"github.com/Laisky/attachment-service/library/log"
)

const (
	sqlInsertMetadata = `INSERT INTO attachments (id, name, size, type, crc) VALUES (?, ?, ?, ?, ?)`
	sqlSelectContent  = `SELECT content FROM attachments WHERE id = ?`
	sqlSelectVersion  = `SELECT content_version FROM attachments WHERE id = ?`
	sqlUpdateContent  = `UPDATE attachments SET content = ?, content_version = content_version + 1 WHERE id = ?`
	sqlDeleteRow      = `DELETE FROM attachments WHERE id = ?`
	sqlSelectMetadata = `SELECT id, name, size, type, crc FROM attachments WHERE id = ?`
	sqlSelectRecent   = `SELECT id, name, size, type, crc FROM attachments ORDER BY attachment_sequence DESC LIMIT ?`
)

// metadataRow is the scan target for metadata projections.
type metadataRow struct {
	ID   uuid.UUID `gorm:"column:id"`
	Name string    `gorm:"column:name"`
	Size int64     `gorm:"column:size"`
	Type string    `gorm:"column:type"`
	CRC  int64     `gorm:"column:crc"`
}

func (r metadataRow) toModel() *model.Attachment {
	return model.NewMetadata(r.ID, r.Name, r.Size, r.Type, r.CRC)
}

// contentRow is the scan target for content reads.
type contentRow struct {
	Content []byte `gorm:"column:content"`
}

type versionRow struct {
	Version int64 `gorm:"column:content_version"`
}

// DB is the gorm-backed Transactor.
type DB struct {
	db     *gorm.DB
	logger logSDK.Logger
}

var _ Transactor = (*DB)(nil)

// NewDB wraps db. Call RunMigrations before first use.
func NewDB(db *gorm.DB, logger logSDK.Logger) (*DB, error) {
	if db == nil {
		return nil, errors.New("gorm db is required")
	}
	if logger == nil {
		logger = log.Logger.Named("attachment_dao")
	}

	return &DB{db: db, logger: logger}, nil
}

// WithinTx runs fn inside one database transaction.
func (d *DB) WithinTx(ctx context.Context, opts TxOptions, fn func(gw Gateway) error) error {
	if fn == nil {
		return errors.New("transaction callback is required")
	}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txGateway{tx: tx})
	}, &sql.TxOptions{ReadOnly: opts.ReadOnly})
	if err != nil {
		d.logger.Debug("attachment transaction aborted",
			zap.Bool("read_only", opts.ReadOnly),
			zap.Error(err))
	}

	return err
}

// txGateway issues statements on one open transaction.
type txGateway struct {
	tx *gorm.DB
}

// InsertMetadata writes the metadata columns, content stays NULL.
func (g *txGateway) InsertMetadata(ctx context.Context, att *model.Attachment) error {
	if att == nil {
		return errors.New("attachment is required")
	}

	if err := g.tx.WithContext(ctx).
		Exec(sqlInsertMetadata, att.ID.String(), att.Name, att.Size, att.Type, att.CRC).
		Error; err != nil {
		return errors.Wrapf(err, "insert attachment %s", att.ID)
	}
	return nil
}

// FetchContent loads the content column.
func (g *txGateway) FetchContent(ctx context.Context, id uuid.UUID) ([]byte, bool, error) {
	var rows []contentRow
	if err := g.tx.WithContext(ctx).
		Raw(sqlSelectContent, id.String()).
		Scan(&rows).Error; err != nil {
		return nil, false, errors.Wrapf(err, "select content of %s", id)
	}
	if len(rows) == 0 || rows[0].Content == nil {
		return nil, false, nil
	}

	return rows[0].Content, true, nil
}

// FetchContentVersion loads the content_version column.
func (g *txGateway) FetchContentVersion(ctx context.Context, id uuid.UUID) (int64, bool, error) {
	var rows []versionRow
	if err := g.tx.WithContext(ctx).
		Raw(sqlSelectVersion, id.String()).
		Scan(&rows).Error; err != nil {
		return 0, false, errors.Wrapf(err, "select content version of %s", id)
	}
	if len(rows) == 0 {
		return 0, false, nil
	}

	return rows[0].Version, true, nil
}

// ReplaceContent overwrites the content column and bumps content_version.
func (g *txGateway) ReplaceContent(ctx context.Context, id uuid.UUID, content []byte) error {
	if err := g.tx.WithContext(ctx).
		Exec(sqlUpdateContent, content, id.String()).
		Error; err != nil {
		return errors.Wrapf(err, "update content of %s", id)
	}
	return nil
}

// DeleteRow removes the row if present.
func (g *txGateway) DeleteRow(ctx context.Context, id uuid.UUID) error {
	if err := g.tx.WithContext(ctx).
		Exec(sqlDeleteRow, id.String()).
		Error; err != nil {
		return errors.Wrapf(err, "delete attachment %s", id)
	}
	return nil
}

// FetchMetadata loads one metadata row.
func (g *txGateway) FetchMetadata(ctx context.Context, id uuid.UUID) (*model.Attachment, error) {
	var rows []metadataRow
	if err := g.tx.WithContext(ctx).
		Raw(sqlSelectMetadata, id.String()).
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "select metadata of %s", id)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return rows[0].toModel(), nil
}

// ListRecentMetadata loads the newest metadata rows.
func (g *txGateway) ListRecentMetadata(ctx context.Context, limit int) ([]*model.Attachment, error) {
	if limit <= 0 {
		return []*model.Attachment{}, nil
	}

	var rows []metadataRow
	if err := g.tx.WithContext(ctx).
		Raw(sqlSelectRecent, limit).
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "select recent attachments")
	}

	attachments := make([]*model.Attachment, 0, len(rows))
	for _, row := range rows {
		attachments = append(attachments, row.toModel())
	}
	return attachments, nil
}
