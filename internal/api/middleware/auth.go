package middleware

import (
	"Cipherchat/internal/pkg/consts"
	"Cipherchat/internal/pkg/response"
	"Cipherchat/internal/service"
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

// IdentityResolver 校验 token 并返回用户 ID
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (uint64, error)
}

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ExtractToken(c)
		if tokenString == "" {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		userID, err := resolver.ResolveIdentity(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, service.UnauthorizedError) {
				response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			} else {
				response.Error(c, err)
			}
			c.Abort()
			return
		}

		c.Set(consts.UserIDKey, userID)
		c.Set(consts.AuthTokenKey, tokenString)
		c.Next()
	}
}

// ExtractToken 依次读取 Authorization 头与 jwt cookie
func ExtractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie(consts.AuthCookieName); err == nil {
		return cookie
	}
	return ""
}
