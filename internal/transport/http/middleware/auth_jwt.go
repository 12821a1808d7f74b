package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"it-inventory/internal/core/auth"
	"it-inventory/internal/domain"
	resp "it-inventory/internal/transport/http/response"
)

const (
	KeyClaims = "claims"
	KeyUserID = "userId"
	KeyRole   = "role"
)

func bearer(c *gin.Context) string {
	ah := c.GetHeader("Authorization")
	if !strings.HasPrefix(ah, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(ah, "Bearer "))
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(KeyClaims, claims)
	c.Set(KeyUserID, claims.ID)
	c.Set(KeyRole, claims.Role)
}

// Authenticate 缺少或无效的 bearer 一律 401
func Authenticate(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := bearer(c)
		if tok == "" {
			resp.Abort(c, http.StatusUnauthorized, "")
			return
		}
		claims, err := tokens.VerifyAccess(tok)
		if err != nil {
			resp.Abort(c, http.StatusUnauthorized, resp.MsgInvalidToken)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth 有合法 token 时写入身份，否则按匿名继续
func OptionalAuth(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := bearer(c); tok != "" {
			if claims, err := tokens.VerifyAccess(tok); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// Authorize 角色不在允许集合内返回 403；必须在 Authenticate 之后
func Authorize(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			resp.Abort(c, http.StatusUnauthorized, "")
			return
		}
		if !slices.Contains(roles, id.Role) {
			resp.Abort(c, http.StatusForbidden, domain.MsgAccessDenied)
			return
		}
		c.Next()
	}
}

// ForbidSelf 路径参数 :id 等于当前用户时返回 400
func ForbidSelf() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := CurrentIdentity(c); ok && id.ID == c.Param("id") {
			resp.Abort(c, http.StatusBadRequest, domain.MsgCannotDeleteSelf)
			return
		}
		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(KeyClaims)
	if !ok {
		return auth.Identity{}, false
	}
	claims, ok := v.(*auth.Claims)
	if !ok {
		return auth.Identity{}, false
	}
	return claims.Identity(), true
}
