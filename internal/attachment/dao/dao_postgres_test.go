package dao

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	errors "github.com/Laisky/errors/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Laisky/attachment-service/internal/attachment/model"
	librarydb "github.com/Laisky/attachment-service/library/db"
	"github.com/Laisky/attachment-service/library/log"
)

func newMockDAO(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}),
		librarydb.NewGormConfig(log.Logger.Named("test")))
	require.NoError(t, err)

	d, err := NewDB(gdb, log.Logger.Named("test"))
	require.NoError(t, err)
	return d, mock
}

func TestPostgresCreateStatements(t *testing.T) {
	t.Parallel()

	d, mock := newMockDAO(t)
	ctx := context.Background()
	att := model.NewMetadata(uuid.New(), "a.txt", 3, "text/plain", 123)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO attachments (id, name, size, type, crc) VALUES ($1, $2, $3, $4, $5)`)).
		WithArgs(att.ID.String(), "a.txt", int64(3), "text/plain", int64(123)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE attachments SET content = $1, content_version = content_version + 1 WHERE id = $2`)).
		WithArgs([]byte{1, 2, 3}, att.ID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := d.WithinTx(ctx, TxOptions{}, func(gw Gateway) error {
		if err := gw.InsertMetadata(ctx, att); err != nil {
			return err
		}
		return gw.ReplaceContent(ctx, att.ID, []byte{1, 2, 3})
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRollbackOnCallbackError(t *testing.T) {
	t.Parallel()

	d, mock := newMockDAO(t)
	ctx := context.Background()
	id := uuid.New()
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM attachments WHERE id = $1`)).
		WithArgs(id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := d.WithinTx(ctx, TxOptions{}, func(gw Gateway) error {
		if err := gw.DeleteRow(ctx, id); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStatementErrorIsWrapped(t *testing.T) {
	t.Parallel()

	d, mock := newMockDAO(t)
	ctx := context.Background()
	id := uuid.New()
	dbErr := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT content FROM attachments WHERE id = $1`)).
		WithArgs(id.String()).
		WillReturnError(dbErr)
	mock.ExpectRollback()

	err := d.WithinTx(ctx, TxOptions{ReadOnly: true}, func(gw Gateway) error {
		_, _, err := gw.FetchContent(ctx, id)
		return err
	})
	require.ErrorIs(t, err, dbErr)
	require.ErrorContains(t, err, "select content of")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFetchMetadataScansRow(t *testing.T) {
	t.Parallel()

	d, mock := newMockDAO(t)
	ctx := context.Background()
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, size, type, crc FROM attachments WHERE id = $1`)).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "size", "type", "crc"}).
			AddRow(id.String(), "a.txt", int64(3), "text/plain", int64(123)))
	mock.ExpectCommit()

	var got *model.Attachment
	err := d.WithinTx(ctx, TxOptions{ReadOnly: true}, func(gw Gateway) error {
		var err error
		got, err = gw.FetchMetadata(ctx, id)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, model.NewMetadata(id, "a.txt", 3, "text/plain", 123), got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFetchContentVersion(t *testing.T) {
	t.Parallel()

	d, mock := newMockDAO(t)
	ctx := context.Background()
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT content_version FROM attachments WHERE id = $1`)).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows([]string{"content_version"}).AddRow(int64(4)))
	mock.ExpectCommit()

	err := d.WithinTx(ctx, TxOptions{ReadOnly: true}, func(gw Gateway) error {
		version, found, err := gw.FetchContentVersion(ctx, id)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, int64(4), version)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
