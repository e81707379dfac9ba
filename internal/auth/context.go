package auth

import (
	"context"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserIDKey = "user_id"
	CtxRoleKey   = "role"
)

type ctxKey struct{}

type UserContext struct {
	UserID string
	Role   string
}

func WithUser(ctx context.Context, u UserContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// GetUserID returns the authenticated user id, or "" for anonymous calls.
func GetUserID(ctx context.Context) string {
	if c, ok := ctx.(*gin.Context); ok {
		return c.GetString(CtxUserIDKey)
	}
	if u, ok := ctx.Value(ctxKey{}).(UserContext); ok {
		return u.UserID
	}
	return ""
}
