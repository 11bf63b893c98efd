package service

import (
	"bytes"
	"context"
	"path"
	"strings"

	errors "github.com/Laisky/errors/v2"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/Laisky/attachment-service/internal/attachment/model"
)

// ContentMirror replicates committed content into an object store.
type ContentMirror interface {
	Put(ctx context.Context, att *model.Attachment) error
	Remove(ctx context.Context, id uuid.UUID) error
}

// MinioMirror writes content to an S3-compatible bucket.
type MinioMirror struct {
	cli    *minio.Client
	bucket string
	prefix string
}

var _ ContentMirror = (*MinioMirror)(nil)

// NewMinioMirror constructs a mirror writing under bucket/prefix.
func NewMinioMirror(cli *minio.Client, bucket, prefix string) (*MinioMirror, error) {
	if cli == nil {
		return nil, errors.New("minio client is required")
	}
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("bucket is required")
	}

	return &MinioMirror{
		cli:    cli,
		bucket: bucket,
		prefix: strings.Trim(strings.TrimSpace(prefix), "/"),
	}, nil
}

// ObjectKey returns the object name of one attachment.
func (m *MinioMirror) ObjectKey(id uuid.UUID) string {
	if m.prefix == "" {
		return id.String()
	}
	return path.Join(m.prefix, id.String())
}

// Put uploads the attachment content with its MIME type.
func (m *MinioMirror) Put(ctx context.Context, att *model.Attachment) error {
	if att == nil {
		return errors.New("attachment is required")
	}

	objkey := m.ObjectKey(att.ID)
	if _, err := m.cli.PutObject(ctx,
		m.bucket,
		objkey,
		bytes.NewReader(att.Content),
		int64(len(att.Content)),
		minio.PutObjectOptions{
			ContentType: att.Type,
		},
	); err != nil {
		return errors.Wrapf(err, "put object %s", objkey)
	}

	return nil
}

// Remove deletes the mirrored object, missing objects are not an error.
func (m *MinioMirror) Remove(ctx context.Context, id uuid.UUID) error {
	objkey := m.ObjectKey(id)
	if err := m.cli.RemoveObject(ctx, m.bucket, objkey, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrapf(err, "remove object %s", objkey)
	}

	return nil
}
