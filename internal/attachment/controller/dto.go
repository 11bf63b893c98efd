package controller

import (
	"github.com/Laisky/errors/v2"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/Laisky/attachment-service/internal/attachment/model"
)

// CreateRequest is the body of POST /attachment/.
// Name is free-form and may be empty. Content is optional; when present its
// length must equal Size.
type CreateRequest struct {
	Name    string `json:"name"`
	Size    int64  `json:"size" binding:"gte=0"`
	Type    string `json:"type"`
	CRC     int64  `json:"crc"`
	Content []byte `json:"content,omitempty"`
}

// toModel validates the request through the attachment constructor.
func (r *CreateRequest) toModel() (*model.Attachment, error) {
	return model.New(uuid.Nil, r.Name, r.Size, r.Type, r.CRC, r.Content)
}

// AttachmentResponse is the JSON view of one attachment.
type AttachmentResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	Type    string    `json:"type"`
	CRC     int64     `json:"crc"`
	Content []byte    `json:"content,omitempty"`
}

// ListResponse is the body of GET /attachment/.
type ListResponse struct {
	Attachments []AttachmentResponse `json:"attachments"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newAttachmentResponse(att *model.Attachment) (resp AttachmentResponse, err error) {
	if err = copier.Copy(&resp, att); err != nil {
		return resp, errors.Wrap(err, "copy attachment")
	}

	return resp, nil
}

func newListResponse(atts []*model.Attachment) (ListResponse, error) {
	resp := ListResponse{Attachments: make([]AttachmentResponse, 0, len(atts))}
	for _, att := range atts {
		item, err := newAttachmentResponse(att)
		if err != nil {
			return ListResponse{}, err
		}
		resp.Attachments = append(resp.Attachments, item)
	}

	return resp, nil
}
