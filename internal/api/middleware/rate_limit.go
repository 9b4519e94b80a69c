package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/redis"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/response"
)

// RateLimit 基于 Redis ZSET 滑动窗口的速率限制中间件（按 IP + 路由计数）
// limit <= 0 或 rdb 为 nil 时降级放行
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.FullPath(), c.ClientIP())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			// Redis 出错时降级放行
			c.Next()
			return
		}

		if !allowed {
			response.Error(c, http.StatusTooManyRequests, 10004, "Demasiados intentos. Intente más tarde")
			c.Abort()
			return
		}

		c.Next()
	}
}
