package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"it-inventory/internal/core/auth"
	mdw "it-inventory/internal/transport/http/middleware"
)

// Kit 各模块共用的中间件与依赖
type Kit struct {
	Log    *zap.Logger
	Tokens *auth.Tokens
	Audit  mdw.AuditSink
}

func (k Kit) auth() gin.HandlerFunc { return mdw.Authenticate(k.Tokens) }

func (k Kit) audit(entity string) gin.HandlerFunc { return mdw.Audit(entity, k.Audit) }

// idOf 受保护路由里当前用户的 id
func idOf(c *gin.Context) auth.Identity {
	id, _ := mdw.CurrentIdentity(c)
	return id
}
