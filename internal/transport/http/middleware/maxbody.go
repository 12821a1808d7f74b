package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "it-inventory/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小；已知长度超限直接 413，流式超限由绑定阶段报告
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			resp.Abort(c, http.StatusRequestEntityTooLarge, "")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
