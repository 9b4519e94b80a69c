package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/api/middleware"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/dto"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/response"
)

// MustGetPrincipal 从 Gin 上下文中提取会话主体。
// SessionAuth 未注入时写入 401 响应并返回 false，调用方应直接 return。
func MustGetPrincipal(c *gin.Context) (*dto.Principal, bool) {
	v, exists := c.Get("principal")
	if !exists {
		response.Unauthorized(c, 10002, "No autorizado")
		return nil, false
	}
	p, ok := v.(*dto.Principal)
	if !ok || p.UserID == "" {
		response.Unauthorized(c, 10002, "No autorizado")
		return nil, false
	}
	return p, true
}

// deviceIDFromToken DeviceAuth 注入的设备 ID
func deviceIDFromToken(c *gin.Context) string {
	return c.GetString("device_id")
}

// sessionToken 请求头中的会话令牌
func sessionToken(c *gin.Context) string {
	return c.GetHeader(middleware.SessionHeader)
}

// clientInfo 请求来源，写入会话与审计
func clientInfo(c *gin.Context) dto.ClientInfo {
	return dto.ClientInfo{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
}
