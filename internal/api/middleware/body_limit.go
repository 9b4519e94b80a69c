package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/response"
)

// BodyLimit 请求体大小限制中间件
// maxBytes <= 0 时不限制
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "Cuerpo de la solicitud demasiado grande")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		// 读取超限由 response.ValidationFailed 转为 413
		c.Next()
	}
}
