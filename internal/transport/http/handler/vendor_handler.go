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

type VendorHandler struct {
	kit Kit
	svc *service.VendorService
}

func NewVendorHandler(kit Kit, svc *service.VendorService) *VendorHandler {
	return &VendorHandler{kit: kit, svc: svc}
}

func (h *VendorHandler) Priority() int { return 40 }

func (h *VendorHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api, h.kit.Log).Group("/vendors", h.kit.auth())
	editors := mdw.Authorize(domain.RoleAdmin, domain.RoleGestor)

	httpez.RegisterAction(ez, httpez.Action[domain.Page, domain.Paged[domain.Vendor]]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, p *domain.Page) (domain.Paged[domain.Vendor], error) {
			return h.svc.List(c.Request.Context(), *p)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.Vendor]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Vendor, error) {
			return h.svc.Get(c.Request.Context(), c.Param("id"))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[service.VendorCreateInput, *domain.Vendor]{
		Method: http.MethodPost,
		Path:   "",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Use:    []gin.HandlerFunc{editors, h.kit.audit(domain.EntityVendor)},
		Handler: func(c *gin.Context, in *service.VendorCreateInput) (*domain.Vendor, error) {
			return h.svc.Create(c.Request.Context(), *in)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[service.VendorUpdateInput, *domain.Vendor]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: httpez.BindJSON,
		Use:    []gin.HandlerFunc{editors, h.kit.audit(domain.EntityVendor)},
		Handler: func(c *gin.Context, in *service.VendorUpdateInput) (*domain.Vendor, error) {
			return h.svc.Update(c.Request.Context(), c.Param("id"), *in)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, resp.Message]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Use:    []gin.HandlerFunc{mdw.Authorize(domain.RoleAdmin), h.kit.audit(domain.EntityVendor)},
		Handler: func(c *gin.Context, _ *struct{}) (resp.Message, error) {
			if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Message: "Fornecedor excluído com sucesso"}, nil
		},
	})
}
