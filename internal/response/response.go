// Package response renders the JSON envelope shared by handlers and
// middleware:
//
//	{"success": true, "data": ..., "message": "..."}
//	{"success": true, "data": [...], "pagination": {...}}
//	{"success": false, "error": {"code": "...", "message": "...", "details": {...}}}
package response

import (
	"errors"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	apperrors "mosquefund/internal/errors"
	"mosquefund/internal/logger"
	"mosquefund/internal/pagination"
)

var exposeInternal atomic.Bool

// ExposeInternalErrors controls whether 5xx responses carry the underlying
// error text. It must stay off in production.
func ExposeInternalErrors(expose bool) {
	exposeInternal.Store(expose)
}

// Envelope is the success body.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// PageEnvelope is the success body of a paginated listing.
type PageEnvelope struct {
	Success    bool            `json:"success"`
	Data       interface{}     `json:"data"`
	Pagination pagination.Meta `json:"pagination"`
}

// ErrorBody is the error member of a failure envelope.
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// ErrorEnvelope is the failure body.
type ErrorEnvelope struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// OK writes a success envelope with the given status.
func OK(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Envelope{Success: true, Data: data, Message: message})
}

// Page writes a paginated success envelope.
func Page[T any](c *gin.Context, status int, page *pagination.PageResponse[T]) {
	c.JSON(status, PageEnvelope{Success: true, Data: page.Data, Pagination: page.Pagination})
}

// Error writes a failure envelope. *AppError values keep their status, code
// and details; anything else becomes INTERNAL_ERROR. Internal causes are
// always logged.
func Error(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if appErr.Internal != nil {
		logger.Get().Errorw("app error",
			"code", appErr.Code,
			"internal", appErr.Internal.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
	}

	message := appErr.Message
	if appErr.StatusCode >= 500 && appErr.Internal != nil && exposeInternal.Load() {
		message = appErr.Message + ": " + appErr.Internal.Error()
	}

	c.JSON(appErr.StatusCode, ErrorEnvelope{
		Error: ErrorBody{
			Code:    appErr.Code,
			Message: message,
			Details: appErr.Details,
		},
	})
}

// Abort writes a failure envelope and stops the handler chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
