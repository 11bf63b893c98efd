// Package minio builds S3-compatible object store clients.
package minio

import (
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DialInfo is the connection info of an S3-compatible endpoint
type DialInfo struct {
	Endpoint  string
	AccessKey string
	Secret    string
	UseSSL    bool
}

// NewClient creates a minio client. It does not touch the network.
func NewClient(dialInfo DialInfo) (*minio.Client, error) {
	endpoint := strings.TrimSpace(dialInfo.Endpoint)
	if endpoint == "" {
		return nil, errors.New("s3 endpoint is required")
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(dialInfo.AccessKey, dialInfo.Secret, ""),
		Secure: dialInfo.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "new minio client for %s", endpoint)
	}

	return cli, nil
}
