package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestNewMatchingContent verifies construction keeps every field when content length equals size.
func TestNewMatchingContent(t *testing.T) {
	cases := []struct {
		size    int64
		content []byte
	}{
		{0, []byte{}},
		{1, []byte{0}},
		{3, []byte{1, 2, 3}},
		{1024, make([]byte, 1024)},
	}

	for _, tc := range cases {
		id := uuid.New()
		att, err := New(id, "a.txt", tc.size, "text/plain", 123, tc.content)
		require.NoError(t, err)
		require.Equal(t, id, att.ID)
		require.Equal(t, "a.txt", att.Name)
		require.Equal(t, tc.size, att.Size)
		require.Equal(t, "text/plain", att.Type)
		require.Equal(t, int64(123), att.CRC)
		require.Equal(t, tc.content, att.Content)
		require.True(t, att.ContentMatchesSize())
	}
}

// TestNewMismatchedContent verifies construction fails when content length differs from size.
func TestNewMismatchedContent(t *testing.T) {
	cases := []struct {
		size    int64
		content []byte
	}{
		{0, []byte{1}},
		{4, []byte{1, 2, 3}},
		{2, []byte{1, 2, 3}},
		{-1, []byte{}},
	}

	for _, tc := range cases {
		att, err := New(uuid.New(), "a.txt", tc.size, "text/plain", 0, tc.content)
		require.Error(t, err)
		require.Nil(t, att)
		require.True(t, IsCode(err, ErrCodeInvalidArgument))
	}
}

// TestNewWithoutContent verifies nil content skips the length check.
func TestNewWithoutContent(t *testing.T) {
	att, err := New(uuid.New(), "", 42, "", -7, nil)
	require.NoError(t, err)
	require.Nil(t, att.Content)
	require.Equal(t, int64(42), att.Size)
	require.Equal(t, int64(-7), att.CRC)
}

// TestNewMetadata verifies the metadata-only constructor never fails and carries no content.
func TestNewMetadata(t *testing.T) {
	id := uuid.New()
	att := NewMetadata(id, "b.bin", 9, "application/octet-stream", 1)
	require.Equal(t, id, att.ID)
	require.Equal(t, "b.bin", att.Name)
	require.Equal(t, int64(9), att.Size)
	require.Equal(t, "application/octet-stream", att.Type)
	require.Equal(t, int64(1), att.CRC)
	require.Nil(t, att.Content)
}

// TestWithContent verifies metadata is copied and content replaced without size validation.
func TestWithContent(t *testing.T) {
	source, err := New(uuid.New(), "a.txt", 3, "text/plain", 123, []byte{1, 2, 3})
	require.NoError(t, err)

	derived := WithContent(source, []byte{9, 9})
	require.Equal(t, source.ID, derived.ID)
	require.Equal(t, source.Name, derived.Name)
	require.Equal(t, source.Size, derived.Size)
	require.Equal(t, source.Type, derived.Type)
	require.Equal(t, source.CRC, derived.CRC)
	require.Equal(t, []byte{9, 9}, derived.Content)
	require.False(t, derived.ContentMatchesSize())

	// source is untouched
	require.Equal(t, []byte{1, 2, 3}, source.Content)
}

// TestMetadataDropsContent verifies the projection strips content.
func TestMetadataDropsContent(t *testing.T) {
	source, err := New(uuid.New(), "a.txt", 3, "text/plain", 123, []byte{1, 2, 3})
	require.NoError(t, err)

	meta := source.Metadata()
	require.Nil(t, meta.Content)
	require.Equal(t, source.ID, meta.ID)
	require.Equal(t, source.Size, meta.Size)
}
