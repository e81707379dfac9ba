package auth

import (
	"strings"

	"github.com/bazarlab/marketplace-service/internal/response"
	"github.com/gin-gonic/gin"
)

func AuthMiddleware(jwtMgr *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			response.Unauthorized(c, "missing bearer token")
			return
		}
		claims, err := jwtMgr.ParseAccess(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			response.Unauthorized(c, "invalid access token")
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxRoleKey, claims.Role)
		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), UserContext{UserID: claims.UserID, Role: claims.Role}))
		c.Next()
	}
}
