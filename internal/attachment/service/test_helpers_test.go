package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	errors "github.com/Laisky/errors/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Laisky/attachment-service/internal/attachment/dao"
	"github.com/Laisky/attachment-service/internal/attachment/model"
	librarydb "github.com/Laisky/attachment-service/library/db"
	"github.com/Laisky/attachment-service/library/log"
)

// newTestDB creates a migrated in-memory sqlite database.
func newTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s-%d?mode=memory&cache=shared", t.Name(), time.Now().UTC().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), librarydb.NewGormConfig(log.Logger.Named("test")))
	require.NoError(t, err)
	require.NoError(t, dao.RunMigrations(context.Background(), db, log.Logger.Named("test")))
	return db
}

// newTestService builds a service backed by sqlite.
func newTestService(t *testing.T, cache ContentCache, mirror ContentMirror) *Service {
	d, err := dao.NewDB(newTestDB(t), log.Logger.Named("test"))
	require.NoError(t, err)

	svc, err := NewService(d, cache, mirror, log.Logger.Named("test"))
	require.NoError(t, err)
	return svc
}

// memoryCache keeps entries in memory. Writes fail while writeErr is set.
type memoryCache struct {
	mu       sync.Mutex
	data     map[uuid.UUID]CachedContent
	getErr   error
	writeErr error
	gets     int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[uuid.UUID]CachedContent)}
}

// Get returns the cached entry.
func (c *memoryCache) Get(_ context.Context, id uuid.UUID) (CachedContent, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return CachedContent{}, false, c.getErr
	}
	entry, ok := c.data[id]
	return entry, ok, nil
}

// Set stores an entry.
func (c *memoryCache) Set(_ context.Context, id uuid.UUID, entry CachedContent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.data[id] = entry
	return nil
}

// Evict drops an entry.
func (c *memoryCache) Evict(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	delete(c.data, id)
	return nil
}

// put stores an entry regardless of writeErr.
func (c *memoryCache) put(id uuid.UUID, entry CachedContent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[id] = entry
}

func (c *memoryCache) lookup(id uuid.UUID) (CachedContent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.data[id]
	return entry, ok
}

// recordingMirror records calls and optionally fails them.
type recordingMirror struct {
	mu      sync.Mutex
	puts    []*model.Attachment
	removes []uuid.UUID
	err     error
}

// Put records the uploaded attachment.
func (m *recordingMirror) Put(_ context.Context, att *model.Attachment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts = append(m.puts, att)
	return m.err
}

// Remove records the removed id.
func (m *recordingMirror) Remove(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removes = append(m.removes, id)
	return m.err
}

// failingTransactor hands out a gateway whose every call fails.
type failingTransactor struct {
	err error
}

// WithinTx runs fn against a failing gateway.
func (f failingTransactor) WithinTx(_ context.Context, _ dao.TxOptions, fn func(gw dao.Gateway) error) error {
	return fn(failingGateway(f))
}

type failingGateway struct {
	err error
}

func (g failingGateway) InsertMetadata(context.Context, *model.Attachment) error { return g.err }

func (g failingGateway) FetchContent(context.Context, uuid.UUID) ([]byte, bool, error) {
	return nil, false, g.err
}

func (g failingGateway) FetchContentVersion(context.Context, uuid.UUID) (int64, bool, error) {
	return 0, false, g.err
}

func (g failingGateway) ReplaceContent(context.Context, uuid.UUID, []byte) error { return g.err }

func (g failingGateway) DeleteRow(context.Context, uuid.UUID) error { return g.err }

func (g failingGateway) FetchMetadata(context.Context, uuid.UUID) (*model.Attachment, error) {
	return nil, g.err
}

func (g failingGateway) ListRecentMetadata(context.Context, int) ([]*model.Attachment, error) {
	return nil, g.err
}

// commitFailingTransactor runs fn on a real store and then reports a commit failure.
type commitFailingTransactor struct {
	inner dao.Transactor
}

// WithinTx runs fn and then fails as if the commit was rejected.
func (c commitFailingTransactor) WithinTx(ctx context.Context, opts dao.TxOptions, fn func(gw dao.Gateway) error) error {
	if err := c.inner.WithinTx(ctx, opts, fn); err != nil {
		return err
	}
	return errors.New("commit rejected")
}
