package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/lingo_go_server/internal/pkg/jwt"
	"github.com/qs3c/lingo_go_server/internal/pkg/response"
)

const (
	UserIDKey = "userID"
)

var (
	errNoAuthHeader  = errors.New("请提供认证信息")
	errBadAuthFormat = errors.New("认证格式错误")
)

// bearerToken 从 Authorization 头提取 Bearer token
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errNoAuthHeader
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || token == "" {
		return "", errBadAuthFormat
	}
	return token, nil
}

// Auth JWT 认证中间件
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			response.AuthError(c, err.Error())
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(token, jwtSecret)
		if err != nil {
			response.AuthError(c, "认证失败或已过期")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// OptionalAuth 可选认证中间件（不强制要求登录）
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.Next()
			return
		}

		if claims, err := jwt.ParseToken(token, jwtSecret); err == nil {
			c.Set(UserIDKey, claims.UserID)
		}

		c.Next()
	}
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(int64)
	return id, ok
}
