package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"it-inventory/internal/domain"
	"it-inventory/internal/service"
	httpez "it-inventory/internal/transport/http/ez"
	mdw "it-inventory/internal/transport/http/middleware"
	resp "it-inventory/internal/transport/http/response"
)

type UserHandler struct {
	kit Kit
	svc *service.UserService
}

func NewUserHandler(kit Kit, svc *service.UserService) *UserHandler {
	return &UserHandler{kit: kit, svc: svc}
}

func (h *UserHandler) Priority() int { return 50 }

func (h *UserHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api, h.kit.Log).Group("/users", h.kit.auth())
	viewers := mdw.Authorize(domain.RoleAdmin, domain.RoleGestor)
	admin := mdw.Authorize(domain.RoleAdmin)

	httpez.RegisterAction(ez, httpez.Action[domain.Page, domain.Paged[domain.User]]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindQuery,
		Use:    []gin.HandlerFunc{viewers},
		Handler: func(c *gin.Context, p *domain.Page) (domain.Paged[domain.User], error) {
			return h.svc.List(c.Request.Context(), *p)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Use:    []gin.HandlerFunc{viewers},
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.svc.Get(c.Request.Context(), c.Param("id"))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[service.UserUpdateInput, *domain.User]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: httpez.BindJSON,
		Use:    []gin.HandlerFunc{admin, h.kit.audit(domain.EntityUser)},
		Handler: func(c *gin.Context, in *service.UserUpdateInput) (*domain.User, error) {
			return h.svc.Update(c.Request.Context(), c.Param("id"), *in)
		},
	})

	// 自删检查在角色检查之前，任何角色都返回 400
	httpez.RegisterAction(ez, httpez.Action[struct{}, resp.Message]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Use:    []gin.HandlerFunc{mdw.ForbidSelf(), admin, h.kit.audit(domain.EntityUser)},
		Handler: func(c *gin.Context, _ *struct{}) (resp.Message, error) {
			if err := h.svc.Delete(c.Request.Context(), idOf(c).ID, c.Param("id")); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Message: "Usuário excluído com sucesso"}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[service.ChangePasswordInput, resp.Message]{
		Method: http.MethodPost,
		Path:   "/:id/change-password",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *service.ChangePasswordInput) (resp.Message, error) {
			if err := h.svc.ChangePassword(c.Request.Context(), idOf(c), c.Param("id"), *in); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Message: "Senha alterada com sucesso"}, nil
		},
	})
}
