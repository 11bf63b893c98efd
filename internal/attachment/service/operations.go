package service

import (
	"context"

	"github.com/Laisky/zap"
	"github.com/google/uuid"

	"github.com/Laisky/attachment-service/internal/attachment/dao"
	"github.com/Laisky/attachment-service/internal/attachment/model"
)

// Create stores the metadata of att under a freshly generated id.
// The caller's id and content are ignored.
func (s *Service) Create(ctx context.Context, att *model.Attachment) (*model.Attachment, error) {
	if att == nil {
		return nil, model.NewError(model.ErrCodeInvalidArgument, "attachment is required")
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, model.NewStorageFailure(err, "generate attachment id")
	}
	stored := model.NewMetadata(id, att.Name, att.Size, att.Type, att.CRC)

	if err := s.tx.WithinTx(ctx, dao.TxOptions{}, func(gw dao.Gateway) error {
		return gw.InsertMetadata(ctx, stored)
	}); err != nil {
		return nil, model.NewStorageFailure(err, "create attachment")
	}

	s.LoggerFromContext(ctx).Debug("attachment created",
		zap.String("id", id.String()),
		zap.String("name", stored.Name),
		zap.Int64("size", stored.Size))
	return stored, nil
}

// GetContent loads the content of one attachment.
//
// The committed content version is always read first. A cached entry is
// served only when it carries that version, otherwise the content is read
// from the store and cached under the version read before it.
func (s *Service) GetContent(ctx context.Context, id uuid.UUID) (ContentResult, error) {
	var (
		result ContentResult
		fill   *CachedContent
	)
	if err := s.tx.WithinTx(ctx, dao.TxOptions{ReadOnly: true}, func(gw dao.Gateway) error {
		version, exists, err := gw.FetchContentVersion(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}

		if cached, ok := s.cachedContent(ctx, id, version); ok {
			result = ContentResult{Content: cached, Found: true}
			return nil
		}

		content, found, err := gw.FetchContent(ctx, id)
		if err != nil {
			return err
		}

		result = ContentResult{Content: content, Found: found && len(content) > 0}
		if result.Found {
			fill = &CachedContent{Version: version, Content: content}
		}
		return nil
	}); err != nil {
		return ContentResult{}, model.NewStorageFailure(err, "get attachment content")
	}
	if !result.Found {
		return ContentResult{}, nil
	}

	if fill != nil && s.cache != nil {
		if err := s.cache.Set(ctx, id, *fill); err != nil {
			s.LoggerFromContext(ctx).Warn("fill content cache", zap.String("id", id.String()), zap.Error(err))
		}
	}

	return result, nil
}

// cachedContent returns cached bytes stored at exactly version.
func (s *Service) cachedContent(ctx context.Context, id uuid.UUID, version int64) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}

	entry, found, err := s.cache.Get(ctx, id)
	switch {
	case err != nil:
		s.LoggerFromContext(ctx).Warn("read content cache", zap.String("id", id.String()), zap.Error(err))
		return nil, false
	case !found || entry.Version != version || len(entry.Content) == 0:
		return nil, false
	}

	return entry.Content, true
}

// GetMetadata loads the metadata of one attachment.
func (s *Service) GetMetadata(ctx context.Context, id uuid.UUID) (*model.Attachment, error) {
	var att *model.Attachment
	if err := s.tx.WithinTx(ctx, dao.TxOptions{ReadOnly: true}, func(gw dao.Gateway) (err error) {
		att, err = gw.FetchMetadata(ctx, id)
		return err
	}); err != nil {
		return nil, model.NewStorageFailure(err, "get attachment metadata")
	}
	if att == nil {
		return nil, notFound(id)
	}

	return att, nil
}

// Update replaces the content of an existing attachment and returns
// its metadata merged with the new content. The declared size is kept.
func (s *Service) Update(ctx context.Context, id uuid.UUID, content []byte) (*model.Attachment, error) {
	var old *model.Attachment
	if err := s.tx.WithinTx(ctx, dao.TxOptions{}, func(gw dao.Gateway) error {
		var err error
		if old, err = gw.FetchMetadata(ctx, id); err != nil {
			return err
		}
		if old == nil {
			return notFound(id)
		}

		return gw.ReplaceContent(ctx, id, content)
	}); err != nil {
		return nil, model.NewStorageFailure(err, "update attachment")
	}

	merged := model.WithContent(old, content)
	logger := s.LoggerFromContext(ctx)
	if !merged.ContentMatchesSize() {
		logger.Warn("attachment content length differs from declared size",
			zap.String("id", id.String()),
			zap.Int64("size", merged.Size),
			zap.Int("content_len", len(content)))
	}

	s.afterUpdate(ctx, merged)
	return merged, nil
}

// Delete removes an attachment. Deleting a missing id succeeds.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.tx.WithinTx(ctx, dao.TxOptions{}, func(gw dao.Gateway) error {
		return gw.DeleteRow(ctx, id)
	}); err != nil {
		return model.NewStorageFailure(err, "delete attachment")
	}

	s.afterDelete(ctx, id)
	return nil
}

// ListRecent returns up to RecentLimit attachments, newest first, without content.
func (s *Service) ListRecent(ctx context.Context) ([]*model.Attachment, error) {
	var attachments []*model.Attachment
	if err := s.tx.WithinTx(ctx, dao.TxOptions{ReadOnly: true}, func(gw dao.Gateway) (err error) {
		attachments, err = gw.ListRecentMetadata(ctx, RecentLimit)
		return err
	}); err != nil {
		return nil, model.NewStorageFailure(err, "list recent attachments")
	}

	if attachments == nil {
		attachments = []*model.Attachment{}
	}
	return attachments, nil
}

func notFound(id uuid.UUID) error {
	return model.NewError(model.ErrCodeNotFound, "attachment "+id.String()+" not found")
}
