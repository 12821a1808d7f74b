package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"it-inventory/internal/domain"
	"it-inventory/internal/service"
	httpez "it-inventory/internal/transport/http/ez"
	mdw "it-inventory/internal/transport/http/middleware"
	resp "it-inventory/internal/transport/http/response"
)

const refreshCookie = "refreshToken"

type AuthHandler struct {
	kit     Kit
	svc     *service.AuthService
	limit   gin.HandlerFunc
	secure  bool
	refresh time.Duration
}

// NewAuthHandler limit 作用于 register / login；secure 控制 cookie 的 Secure 属性
func NewAuthHandler(kit Kit, svc *service.AuthService, limit gin.HandlerFunc, secure bool) *AuthHandler {
	return &AuthHandler{kit: kit, svc: svc, limit: limit, secure: secure, refresh: kit.Tokens.RefreshTTL()}
}

func (h *AuthHandler) Priority() int { return 10 }

type sessionOut struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"accessToken"`
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, token, maxAge, "/", "", h.secure, true)
}

func (h *AuthHandler) respond(c *gin.Context, s *service.Session) sessionOut {
	h.setRefreshCookie(c, s.Tokens.RefreshToken, int(h.refresh/time.Second))
	return sessionOut{User: s.User, AccessToken: s.Tokens.AccessToken}
}

func (h *AuthHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api, h.kit.Log).Group("/auth")

	httpez.RegisterAction(ez, httpez.Action[service.RegisterInput, sessionOut]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Use:    []gin.HandlerFunc{h.limit, mdw.OptionalAuth(h.kit.Tokens)},
		Handler: func(c *gin.Context, in *service.RegisterInput) (sessionOut, error) {
			s, err := h.svc.Register(c.Request.Context(), *in, idOf(c).Role)
			if err != nil {
				return sessionOut{}, err
			}
			return h.respond(c, s), nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[service.LoginInput, sessionOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: httpez.BindJSON,
		Use:    []gin.HandlerFunc{h.limit},
		Handler: func(c *gin.Context, in *service.LoginInput) (sessionOut, error) {
			s, err := h.svc.Login(c.Request.Context(), *in)
			if err != nil {
				return sessionOut{}, err
			}
			return h.respond(c, s), nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, sessionOut]{
		Method: http.MethodPost,
		Path:   "/refresh",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (sessionOut, error) {
			tok, _ := c.Cookie(refreshCookie)
			s, err := h.svc.Refresh(c.Request.Context(), tok)
			if err != nil {
				return sessionOut{}, err
			}
			return h.respond(c, s), nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Use:    []gin.HandlerFunc{h.kit.auth()},
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.svc.Me(c.Request.Context(), idOf(c).ID)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, resp.Message]{
		Method: http.MethodPost,
		Path:   "/logout",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Message, error) {
			h.setRefreshCookie(c, "", -1)
			return resp.Message{Message: "Logout realizado com sucesso"}, nil
		},
	})
}
