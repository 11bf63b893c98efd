package service

import (
	"context"

	"github.com/Laisky/zap"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Laisky/attachment-service/internal/attachment/model"
)

// afterUpdate evicts the replaced content from the cache and mirrors the new one.
// Failures are logged and never change the outcome of the update.
func (s *Service) afterUpdate(ctx context.Context, att *model.Attachment) {
	logger := s.LoggerFromContext(ctx).With(zap.String("id", att.ID.String()))
	var pool errgroup.Group

	if s.cache != nil {
		pool.Go(func() error {
			if err := s.cache.Evict(ctx, att.ID); err != nil {
				logger.Warn("evict content cache", zap.Error(err))
			}
			return nil
		})
	}
	if s.mirror != nil {
		pool.Go(func() error {
			if err := s.mirror.Put(ctx, att); err != nil {
				logger.Error("mirror attachment content", zap.Error(err))
			}
			return nil // ignore error
		})
	}

	_ = pool.Wait()
}

// afterDelete evicts a deleted attachment from the cache and the mirror.
func (s *Service) afterDelete(ctx context.Context, id uuid.UUID) {
	logger := s.LoggerFromContext(ctx).With(zap.String("id", id.String()))
	var pool errgroup.Group

	if s.cache != nil {
		pool.Go(func() error {
			if err := s.cache.Evict(ctx, id); err != nil {
				logger.Warn("evict content cache", zap.Error(err))
			}
			return nil
		})
	}
	if s.mirror != nil {
		pool.Go(func() error {
			if err := s.mirror.Remove(ctx, id); err != nil {
				logger.Error("remove mirrored attachment", zap.Error(err))
			}
			return nil // ignore error
		})
	}

	_ = pool.Wait()
}
