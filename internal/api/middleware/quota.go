package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/lingo_go_server/internal/pkg/response"
	"github.com/qs3c/lingo_go_server/internal/service"
)

// QuotaCheck 配额检查中间件。只做检查不记用量：
// 被拒绝的请求不产生任何数据库写入，用量由业务成功后补记。
func QuotaCheck(quotaService *service.QuotaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		allowed, msg, err := quotaService.CanConsume(userID, time.Now())
		if err != nil {
			response.ServerError(c, "配额检查失败")
			c.Abort()
			return
		}

		if !allowed {
			// msg 是面向用户的原文，前端直接展示
			response.QuotaError(c, msg)
			c.Abort()
			return
		}

		c.Next()
	}
}
