package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint returns, success or failure.
type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func RespondOK(ctx *gin.Context, message string, data any) {
	ctx.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func RespondError(ctx *gin.Context, status int, message string, errs ...string) {
	ctx.JSON(status, Response{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}

func RespondBadRequest(ctx *gin.Context, message string, errs ...string) {
	RespondError(ctx, http.StatusBadRequest, message, errs...)
}

func RespondUnauthorized(ctx *gin.Context, message string, errs ...string) {
	RespondError(ctx, http.StatusUnauthorized, message, errs...)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, message)
}

// RespondInternal deliberately carries no detail: store and signing
// failures must not leak internals to the caller.
func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, message)
}
