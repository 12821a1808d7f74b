package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"it-inventory/internal/domain"
	mdw "it-inventory/internal/transport/http/middleware"
	resp "it-inventory/internal/transport/http/response"
)

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, log *zap.Logger) EZ { return EZ{g: g, log: log} }

// Group 子分组，mw 作用于该分组下所有动作
func (e EZ) Group(path string, mw ...gin.HandlerFunc) EZ {
	return EZ{g: e.g.Group(path, mw...), log: e.log}
}

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method     string            // "GET" | "POST" | "PUT" | "DELETE"
	Path       string            // 例："/auth/login"、"/users/:id/change-password"
	Binder     Binder            // 绑定方式
	Status     int               // 成功状态码，默认 200
	InvalidMsg string            // 绑定 / 校验失败时的提示，默认 Dados inválidos
	Use        []gin.HandlerFunc // 路由级中间件，按顺序执行（角色、审计、限流）
	Handler    func(c *gin.Context, in *I) (O, error)
}

// StatusOf 错误到状态码与客户端消息的映射
func StatusOf(err error) (int, string) {
	var de *domain.Error
	if errors.As(err, &de) {
		switch de.Kind {
		case domain.KindInvalid:
			return http.StatusBadRequest, de.Msg
		case domain.KindUnauthorized:
			return http.StatusUnauthorized, de.Msg
		case domain.KindForbidden:
			return http.StatusForbidden, de.Msg
		case domain.KindNotFound:
			return http.StatusNotFound, de.Msg
		}
	}
	return http.StatusInternalServerError, ""
}

func (e EZ) fail(c *gin.Context, err error) {
	code, msg := StatusOf(err)
	if code >= http.StatusInternalServerError {
		// 细节只进日志
		e.log.Error("request failed",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	resp.Abort(c, code, msg)
}

func (e EZ) invalid(c *gin.Context, err error, msg string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		resp.Abort(c, http.StatusRequestEntityTooLarge, "")
		return
	}
	var ve validator.ValidationErrors
	fields := []string{}
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields = append(fields, fe.Field()+":"+fe.Tag())
		}
	}
	e.log.Info("invalid request",
		zap.String("rid", c.GetString(mdw.KeyRequestID)),
		zap.String("path", c.FullPath()),
		zap.Strings("fields", fields),
		zap.Error(err))
	if msg == "" {
		msg = domain.MsgInvalidData
	}
	resp.Abort(c, http.StatusBadRequest, msg)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		// 1) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			e.invalid(c, bindErr, a.InvalidMsg)
			return
		}

		// 2) 执行 + 统一错误映射
		out, err := a.Handler(c, &in)
		if err != nil {
			e.fail(c, err)
			return
		}
		c.JSON(status, out)
	}

	handlers := append(append([]gin.HandlerFunc{}, a.Use...), h)
	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, handlers...)
	case http.MethodPut:
		e.g.PUT(a.Path, handlers...)
	case http.MethodDelete:
		e.g.DELETE(a.Path, handlers...)
	default: // 默认 POST
		e.g.POST(a.Path, handlers...)
	}
}
