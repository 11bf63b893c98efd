package controller

import (
	"net/http"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/Laisky/attachment-service/internal/attachment/model"
)

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	typed, ok := model.AsError(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch typed.Code {
	case model.ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes an ErrorResponse and stops the handler chain.
// Internal failures are logged with their cause and reported without it.
func abortWithError(ctx *gin.Context, err error) {
	status := statusFor(err)
	resp := ErrorResponse{
		Code:    string(model.ErrCodeStorageFailure),
		Message: "internal error",
	}

	if typed, ok := model.AsError(err); ok && status != http.StatusInternalServerError {
		resp.Code = string(typed.Code)
		resp.Message = typed.Message
	}
	if status == http.StatusInternalServerError {
		gmw.GetLogger(ctx).Error("attachment request failed", zap.Error(err))
	}

	ctx.AbortWithStatusJSON(status, resp)
}

// badRequest reports a malformed request.
func badRequest(ctx *gin.Context, err error, msg string) {
	abortWithError(ctx, model.NewError(model.ErrCodeInvalidArgument, errors.Wrap(err, msg).Error()))
}
