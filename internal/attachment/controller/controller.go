// Package controller exposes the attachment service over HTTP.
package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Laisky/attachment-service/internal/attachment/model"
	"github.com/Laisky/attachment-service/internal/attachment/service"
)

// DefaultMaxPayloadBytes caps request bodies when no limit is configured.
const DefaultMaxPayloadBytes int64 = 10 << 20

// AttachmentService is the subset of the storage service used by the handlers.
type AttachmentService interface {
	Create(ctx context.Context, att *model.Attachment) (*model.Attachment, error)
	GetContent(ctx context.Context, id uuid.UUID) (service.ContentResult, error)
	GetMetadata(ctx context.Context, id uuid.UUID) (*model.Attachment, error)
	Update(ctx context.Context, id uuid.UUID, content []byte) (*model.Attachment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListRecent(ctx context.Context) ([]*model.Attachment, error)
}

// Attachment serves the /attachment routes.
type Attachment struct {
	svc             AttachmentService
	maxPayloadBytes int64
}

// NewAttachment constructs the attachment controller.
func NewAttachment(svc AttachmentService, maxPayloadBytes int64) (*Attachment, error) {
	if svc == nil {
		return nil, errors.New("attachment service is required")
	}
	if maxPayloadBytes <= 0 {
		maxPayloadBytes = DefaultMaxPayloadBytes
	}

	return &Attachment{svc: svc, maxPayloadBytes: maxPayloadBytes}, nil
}

// RegisterRoutes mounts the handlers under /attachment.
func (c *Attachment) RegisterRoutes(r gin.IRouter) {
	grp := r.Group("/attachment")
	grp.POST("/", c.Create)
	grp.GET("/", c.ListRecent)
	grp.GET("/content/:id", c.GetContent)
	grp.GET("/metadata/:id", c.GetMetadata)
	grp.GET("/:id", c.Download)
	grp.PUT("/:id", c.Update)
	grp.DELETE("/:id", c.Delete)
}

// Create handles POST /attachment/.
func (c *Attachment) Create(ctx *gin.Context) {
	c.limitBody(ctx)

	req := new(CreateRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		badRequest(ctx, err, "parse attachment")
		return
	}

	att, err := req.toModel()
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	created, err := c.svc.Create(ctx, att)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	resp, err := newAttachmentResponse(created)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	gmw.GetLogger(ctx).Debug("attachment saved", zap.String("id", created.ID.String()))
	ctx.Header("Location", path.Join(ctx.FullPath(), created.ID.String()))
	ctx.JSON(http.StatusCreated, resp)
}

// GetContent handles GET /attachment/content/:id.
// Missing and empty content are both reported as 404.
func (c *Attachment) GetContent(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	res, err := c.svc.GetContent(ctx, id)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	if !res.Found {
		gmw.GetLogger(ctx).Debug("attachment has no content", zap.String("id", id.String()))
		abortWithError(ctx, model.NewError(model.ErrCodeNotFound, "attachment "+id.String()+" has no content"))
		return
	}

	ctx.Data(http.StatusOK, "application/octet-stream", res.Content)
}

// GetMetadata handles GET /attachment/metadata/:id.
func (c *Attachment) GetMetadata(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	att, err := c.svc.GetMetadata(ctx, id)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	resp, err := newAttachmentResponse(att)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Download handles GET /attachment/:id, serving the content with the stored type and name.
func (c *Attachment) Download(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var (
		meta    *model.Attachment
		content service.ContentResult
	)
	pool, gctx := errgroup.WithContext(ctx)
	pool.Go(func() (err error) {
		meta, err = c.svc.GetMetadata(gctx, id)
		return err
	})
	pool.Go(func() (err error) {
		content, err = c.svc.GetContent(gctx, id)
		return err
	})
	if err := pool.Wait(); err != nil {
		abortWithError(ctx, err)
		return
	}

	contentType := meta.Type
	if strings.TrimSpace(contentType) == "" {
		contentType = "application/octet-stream"
	}

	ctx.Header("Content-Disposition", contentDisposition(meta.Name))
	ctx.Data(http.StatusOK, contentType, content.Content)
}

// Update handles PUT /attachment/:id.
// A JSON body carries the content as a base64 string, anything else is taken raw.
func (c *Attachment) Update(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	content, err := c.readContent(ctx)
	if err != nil {
		badRequest(ctx, err, "read content")
		return
	}

	updated, err := c.svc.Update(ctx, id, content)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	resp, err := newAttachmentResponse(updated)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusAccepted, resp)
}

// Delete handles DELETE /attachment/:id.
func (c *Attachment) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := c.svc.Delete(ctx, id); err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ListRecent handles GET /attachment/.
func (c *Attachment) ListRecent(ctx *gin.Context) {
	atts, err := c.svc.ListRecent(ctx)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	resp, err := newListResponse(atts)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

func (c *Attachment) limitBody(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxPayloadBytes)
}

func (c *Attachment) readContent(ctx *gin.Context) ([]byte, error) {
	c.limitBody(ctx)

	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	if ctx.ContentType() != gin.MIMEJSON {
		return body, nil
	}

	var content []byte
	if err = json.Unmarshal(body, &content); err != nil {
		return nil, errors.Wrap(err, "decode base64 content")
	}
	return content, nil
}

func parseID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, err, "parse attachment id")
		return uuid.Nil, false
	}

	return id, true
}

func contentDisposition(name string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r", "", "\n", "").Replace(name)
	return `attachment; filename="` + escaped + `"`
}
