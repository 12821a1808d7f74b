package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 敏感字段 key（query 中统一按 key 小写匹配）
var sensitiveKeys = map[string]struct{}{
	"password": {}, "currentpassword": {}, "newpassword": {},
	"token": {}, "accesstoken": {}, "refreshtoken": {}, "authorization": {},
	"secret": {}, "apikey": {},
}

func isSensitive(k string) bool {
	_, ok := sensitiveKeys[strings.ToLower(k)]
	return ok
}

func maskQuery(kv map[string][]string) map[string][]string {
	out := make(map[string][]string, len(kv))
	for k, v := range kv {
		if isSensitive(k) {
			out[k] = []string{"****"}
		} else {
			out[k] = v
		}
	}
	return out
}

// AccessLog 每个请求一条摘要；5xx 记 error，4xx 记 warn
func AccessLog(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		lvl := zapcore.InfoLevel
		switch {
		case status >= 500:
			lvl = zapcore.ErrorLevel
		case status >= 400:
			lvl = zapcore.WarnLevel
		}
		ce := l.Check(lvl, "HTTP")
		if ce == nil {
			return
		}
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		ce.Write(
			zap.String("rid", c.GetString(KeyRequestID)),
			zap.String("uid", c.GetString(KeyUserID)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("ua", c.Request.UserAgent()),
			zap.Any("query", maskQuery(c.Request.URL.Query())),
			zap.Int("size", c.Writer.Size()),
		)
	}
}
