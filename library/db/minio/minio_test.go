package minio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("empty endpoint", func(t *testing.T) {
		_, err := NewClient(DialInfo{Endpoint: "  "})
		require.Error(t, err)
	})

	t.Run("https endpoint", func(t *testing.T) {
		cli, err := NewClient(DialInfo{
			Endpoint:  "s3.example.com",
			AccessKey: "ak",
			Secret:    "sk",
			UseSSL:    true,
		})
		require.NoError(t, err)
		require.Equal(t, "https", cli.EndpointURL().Scheme)
		require.Equal(t, "s3.example.com", cli.EndpointURL().Host)
	})
}
