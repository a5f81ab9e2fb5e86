package middleware

import (
	"github.com/gin-gonic/gin"

	"mosquefund/internal/policy"
	"mosquefund/internal/response"
)

// RequirePermission aborts with 401/403 unless the actor set by
// AuthMiddleware may perform op on res.
func RequirePermission(res policy.Resource, op policy.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := policy.Authorize(ActorFrom(c), res, op); err != nil {
			response.Abort(c, err)
			return
		}
		c.Next()
	}
}
