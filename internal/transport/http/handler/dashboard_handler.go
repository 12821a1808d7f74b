package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"it-inventory/internal/domain"
	"it-inventory/internal/service"
	httpez "it-inventory/internal/transport/http/ez"
)

type DashboardHandler struct {
	kit Kit
	svc *service.DashboardService
}

func NewDashboardHandler(kit Kit, svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{kit: kit, svc: svc}
}

func (h *DashboardHandler) Priority() int { return 20 }

func (h *DashboardHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api, h.kit.Log).Group("/dashboard", h.kit.auth())

	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.DashboardStats]{
		Method: http.MethodGet,
		Path:   "/stats",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.DashboardStats, error) {
			return h.svc.GetStats(c.Request.Context())
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, []domain.AuditLog]{
		Method: http.MethodGet,
		Path:   "/activity",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.AuditLog, error) {
			return h.svc.RecentActivity(c.Request.Context())
		},
	})
}
