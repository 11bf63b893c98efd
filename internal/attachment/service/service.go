// Package service implements the attachment storage operations.
package service

import (
	"context"

	errors "github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	logSDK "github.com/Laisky/go-utils/v6/log"

	"github.com/Laisky/attachment-service/internal/attachment/dao"
	"github.com/Laisky/attachment-service/library/log"
)

// RecentLimit caps the number of attachments returned by ListRecent.
const RecentLimit = 20

// ContentResult is the outcome of GetContent.
// Found is false when the attachment is missing or carries no content.
type ContentResult struct {
	Content []byte
	Found   bool
}

// Service coordinates attachment operations over one transactional store.
type Service struct {
	tx     dao.Transactor
	cache  ContentCache
	mirror ContentMirror
	logger logSDK.Logger
}

// NewService constructs the storage service. cache and mirror are optional.
func NewService(tx dao.Transactor, cache ContentCache, mirror ContentMirror, logger logSDK.Logger) (*Service, error) {
	if tx == nil {
		return nil, errors.New("transactor is required")
	}
	if logger == nil {
		logger = log.Logger.Named("attachment_service")
	}

	return &Service{
		tx:     tx,
		cache:  cache,
		mirror: mirror,
		logger: logger,
	}, nil
}

// LoggerFromContext returns the request-scoped logger when available.
func (s *Service) LoggerFromContext(ctx context.Context) logSDK.Logger {
	if ctx != nil {
		if ctxLogger := gmw.GetLogger(ctx); ctxLogger != nil {
			return ctxLogger
		}
	}
	if s != nil && s.logger != nil {
		return s.logger
	}
	return log.Logger.Named("attachment_service_fallback")
}
