// Package dao persists attachments behind a transaction-scoped gateway.
package dao

import (
	"context"

	"github.com/google/uuid"

	"github.com/Laisky/attachment-service/internal/attachment/model"
)

// Gateway executes parameterized statements against the backing store.
// A Gateway is only valid inside the WithinTx callback that produced it.
type Gateway interface {
	// InsertMetadata creates a durable row. It fails if the id is already present.
	InsertMetadata(ctx context.Context, att *model.Attachment) error
	// FetchContent returns the stored content, or false when the row or its content is absent.
	FetchContent(ctx context.Context, id uuid.UUID) ([]byte, bool, error)
	// FetchContentVersion returns the content version of the row, or false when absent.
	// The version grows with every ReplaceContent.
	FetchContentVersion(ctx context.Context, id uuid.UUID) (int64, bool, error)
	// ReplaceContent overwrites content for an existing row and bumps its content version.
	ReplaceContent(ctx context.Context, id uuid.UUID, content []byte) error
	// DeleteRow removes the row and its content. Deleting an absent id is not an error.
	DeleteRow(ctx context.Context, id uuid.UUID) error
	// FetchMetadata returns the metadata row, or nil when absent.
	FetchMetadata(ctx context.Context, id uuid.UUID) (*model.Attachment, error)
	// ListRecentMetadata returns up to limit metadata rows, newest first.
	ListRecentMetadata(ctx context.Context, limit int) ([]*model.Attachment, error)
}

// TxOptions tunes one scoped transaction.
type TxOptions struct {
	ReadOnly bool
}

// Transactor runs fn inside a single transaction.
//
// The transaction commits when fn returns nil. Any error returned by fn, and
// any panic raised inside it, rolls back every write made through the Gateway.
type Transactor interface {
	WithinTx(ctx context.Context, opts TxOptions, fn func(gw Gateway) error) error
}
