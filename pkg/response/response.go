package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devlinkhq/devlink-api/internal/apperror"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// Success writes a success envelope with the given status and payload.
func Success[T any](ctx *gin.Context, status int, data T, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
	})
}

// Error writes a failure envelope with the given status and detail.
func Error[T any](ctx *gin.Context, status int, message string, err interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.JSON(status, APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	})
}

// FromError maps an application error onto its HTTP status and writes
// the failure envelope. Authentication failures always read as
// "unauthorized"; ownership failures as "forbidden", distinct from a
// missing resource; store failures as 503 so the caller knows the
// outcome is unknown rather than cleanly negative.
func FromError(ctx *gin.Context, err error) {
	var pd *apperror.PartialDeleteError
	switch {
	case errors.Is(err, apperror.ErrMissingCredential), errors.Is(err, apperror.ErrInvalidCredential):
		Error[any](ctx, http.StatusUnauthorized, "unauthorized", nil)
	case errors.As(err, &pd):
		Error[any](ctx, http.StatusInternalServerError, "account partially deleted", gin.H{
			"completed": pd.Completed,
			"failed":    pd.Step,
		})
	case errors.Is(err, apperror.ErrNotFound):
		Error[any](ctx, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, apperror.ErrConflict):
		Error[any](ctx, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, apperror.ErrForbidden):
		Error[any](ctx, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, apperror.ErrStoreUnavailable):
		Error[any](ctx, http.StatusServiceUnavailable, "service unavailable", nil)
	default:
		Error[any](ctx, http.StatusInternalServerError, "internal error", nil)
	}
}
