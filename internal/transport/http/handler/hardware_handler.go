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

type HardwareHandler struct {
	kit Kit
	svc *service.HardwareService
}

func NewHardwareHandler(kit Kit, svc *service.HardwareService) *HardwareHandler {
	return &HardwareHandler{kit: kit, svc: svc}
}

func (h *HardwareHandler) Priority() int { return 30 }

func (h *HardwareHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api, h.kit.Log).Group("/hardware", h.kit.auth())
	editors := mdw.Authorize(domain.RoleAdmin, domain.RoleGestor)

	httpez.RegisterAction(ez, httpez.Action[service.HardwareQuery, domain.Paged[domain.HardwareItem]]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, q *service.HardwareQuery) (domain.Paged[domain.HardwareItem], error) {
			return h.svc.List(c.Request.Context(), *q)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.HardwareDetail]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.HardwareDetail, error) {
			return h.svc.Get(c.Request.Context(), c.Param("id"))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[service.HardwareCreateInput, *domain.HardwareItem]{
		Method: http.MethodPost,
		Path:   "",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Use:    []gin.HandlerFunc{editors, h.kit.audit(domain.EntityHardware)},
		Handler: func(c *gin.Context, in *service.HardwareCreateInput) (*domain.HardwareItem, error) {
			return h.svc.Create(c.Request.Context(), *in)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[service.HardwareUpdateInput, *domain.HardwareItem]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: httpez.BindJSON,
		Use:    []gin.HandlerFunc{editors, h.kit.audit(domain.EntityHardware)},
		Handler: func(c *gin.Context, in *service.HardwareUpdateInput) (*domain.HardwareItem, error) {
			return h.svc.Update(c.Request.Context(), c.Param("id"), *in)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, resp.Message]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Use:    []gin.HandlerFunc{mdw.Authorize(domain.RoleAdmin), h.kit.audit(domain.EntityHardware)},
		Handler: func(c *gin.Context, _ *struct{}) (resp.Message, error) {
			if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Message: "Item excluído com sucesso"}, nil
		},
	})
}
