// Package model defines the attachment entity and its error taxonomy.
package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Attachment is a stored file and its metadata.
//
// Content is optional. A metadata-only view carries nil Content.
type Attachment struct {
	ID      uuid.UUID
	Name    string
	Size    int64
	Type    string
	CRC     int64
	Content []byte
}

// New builds an attachment carrying content.
//
// It fails with ErrCodeInvalidArgument when content is non-nil and its length
// differs from size. Name, type and crc are not validated.
func New(id uuid.UUID, name string, size int64, mimeType string, crc int64, content []byte) (*Attachment, error) {
	if content != nil && int64(len(content)) != size {
		return nil, NewError(ErrCodeInvalidArgument,
			fmt.Sprintf("length of content (%d) does not match size (%d)", len(content), size))
	}

	return &Attachment{
		ID:      id,
		Name:    name,
		Size:    size,
		Type:    mimeType,
		CRC:     crc,
		Content: content,
	}, nil
}

// NewMetadata builds a metadata-only attachment.
func NewMetadata(id uuid.UUID, name string, size int64, mimeType string, crc int64) *Attachment {
	return &Attachment{
		ID:   id,
		Name: name,
		Size: size,
		Type: mimeType,
		CRC:  crc,
	}
}

// WithContent returns a copy of source with content replaced.
//
// The declared size is carried over unchanged and is not checked against the
// new content.
func WithContent(source *Attachment, content []byte) *Attachment {
	derived := source.Metadata()
	derived.Content = content
	return derived
}

// Metadata returns a copy of the attachment without content.
func (a *Attachment) Metadata() *Attachment {
	return NewMetadata(a.ID, a.Name, a.Size, a.Type, a.CRC)
}

// ContentMatchesSize reports whether the carried content agrees with Size.
// A metadata-only attachment always matches.
func (a *Attachment) ContentMatchesSize() bool {
	return a.Content == nil || int64(len(a.Content)) == a.Size
}
