package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Laisky/attachment-service/library/log"
)

// TestNewDBRequiresPath verifies an empty path is rejected before opening anything.
func TestNewDBRequiresPath(t *testing.T) {
	_, err := NewDB(context.Background(), "  ", log.Logger.Named("test"))
	require.Error(t, err)
}

// TestNewDBOpensFile verifies a file database is created and reachable.
func TestNewDBOpensFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attachments.db")
	gdb, err := NewDB(context.Background(), path, log.Logger.Named("test"))
	require.NoError(t, err)

	var one int
	require.NoError(t, gdb.Raw("SELECT 1").Scan(&one).Error)
	require.Equal(t, 1, one)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}
