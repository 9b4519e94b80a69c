package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/jwt"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/response"
)

// DeviceAuth 考勤终端认证中间件
// 从 Authorization: Bearer <token> 中提取设备 Token，device_id 注入上下文
// 终端固件只识别 {"error": "..."}，不使用统一响应格式
func DeviceAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(authHeader, " ")
		if authHeader == "" || !ok || scheme != "Bearer" || token == "" {
			response.DeviceError(c, http.StatusUnauthorized, "Missing device token")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseDeviceToken(token)
		if err != nil {
			response.DeviceError(c, http.StatusUnauthorized, "Invalid device token")
			c.Abort()
			return
		}

		c.Set("device_id", claims.DeviceID)
		c.Next()
	}
}
