package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	minioclient "github.com/Laisky/attachment-service/library/db/minio"
)

func TestMinioMirrorObjectKey(t *testing.T) {
	cli, err := minioclient.NewClient(minioclient.DialInfo{Endpoint: "s3.example.com"})
	require.NoError(t, err)
	id := uuid.MustParse("6f1c2a1e-8c1b-4a57-9a57-0c1d2e3f4a5b")

	m, err := NewMinioMirror(cli, "bucket", "/attachments/")
	require.NoError(t, err)
	require.Equal(t, "attachments/6f1c2a1e-8c1b-4a57-9a57-0c1d2e3f4a5b", m.ObjectKey(id))

	m, err = NewMinioMirror(cli, "bucket", "")
	require.NoError(t, err)
	require.Equal(t, id.String(), m.ObjectKey(id))

	_, err = NewMinioMirror(cli, " ", "p")
	require.Error(t, err)
	_, err = NewMinioMirror(nil, "bucket", "p")
	require.Error(t, err)
}

func TestNewRedisContentCache(t *testing.T) {
	_, err := NewRedisContentCache(nil, 0)
	require.Error(t, err)
}
