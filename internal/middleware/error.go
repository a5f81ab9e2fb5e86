package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	apperrors "mosquefund/internal/errors"
	"mosquefund/internal/logger"
	"mosquefund/internal/response"
)

// ErrorHandler returns a Gin middleware that renders errors attached with
// c.Error when the handler chain has not already written a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		response.Error(c, c.Errors.Last().Err)
	}
}

// Recovery converts a panic into an INTERNAL_ERROR envelope instead of
// dropping the connection.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Get().Errorw("panic recovered",
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		response.Abort(c, apperrors.Wrap(apperrors.ErrInternalServer, fmt.Errorf("panic: %v", recovered)))
	})
}
