package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"it-inventory/internal/domain"
)

// AuditSink 异步记录器；Record 不能阻塞
type AuditSink interface {
	Record(e domain.AuditLog)
}

// Audit handler 之前缓存请求体，handler 之后对已认证且成功（<400）的请求写审计
func Audit(entity string, sink AuditSink) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil && c.Request.Body != http.NoBody {
			b, err := io.ReadAll(c.Request.Body)
			if err != nil {
				// 超限等读取错误交给后续绑定处理
				c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(b), errReader{err}))
			} else {
				c.Request.Body = io.NopCloser(bytes.NewReader(b))
			}
			body = b
		}

		c.Next()

		id, ok := CurrentIdentity(c)
		if !ok || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		entityID := c.Param("id")
		if entityID == "" {
			entityID = "unknown"
		}
		uid := id.ID
		e := domain.AuditLog{
			UserID:     &uid,
			EntityType: entity,
			EntityID:   entityID,
			Action:     c.Request.Method + " " + c.FullPath(),
		}
		e.NewValues, e.OldValues = auditValues(body)
		sink.Record(e)
	}
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

// auditValues 请求体脱敏后作为 newValues；body.oldValues 存在时单独记录
func auditValues(body []byte) (newValues, oldValues *string) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, nil
	}
	if old, ok := m["oldValues"]; ok {
		delete(m, "oldValues")
		if b, err := json.Marshal(old); err == nil {
			s := string(b)
			oldValues = &s
		}
	}
	for k := range m {
		if isSensitive(k) {
			m[k] = "****"
		}
	}
	if b, err := json.Marshal(m); err == nil {
		s := string(b)
		newValues = &s
	}
	return newValues, oldValues
}
