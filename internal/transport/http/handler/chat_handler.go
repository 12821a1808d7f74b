package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"it-inventory/internal/service"
	httpez "it-inventory/internal/transport/http/ez"
)

const msgChatInvalid = "Não foi possível processar sua mensagem"

type ChatHandler struct {
	kit   Kit
	svc   *service.ChatService
	limit gin.HandlerFunc
}

// NewChatHandler limit 只作用于 /ask
func NewChatHandler(kit Kit, svc *service.ChatService, limit gin.HandlerFunc) *ChatHandler {
	return &ChatHandler{kit: kit, svc: svc, limit: limit}
}

func (h *ChatHandler) Priority() int { return 60 }

type chatOut struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *ChatHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api, h.kit.Log).Group("/chat", h.kit.auth())

	httpez.RegisterAction(ez, httpez.Action[service.ChatInput, chatOut]{
		Method:     http.MethodPost,
		Path:       "/ask",
		Binder:     httpez.BindJSON,
		InvalidMsg: msgChatInvalid,
		Use:        []gin.HandlerFunc{h.limit},
		Handler: func(c *gin.Context, in *service.ChatInput) (chatOut, error) {
			answer := h.svc.Ask(c.Request.Context(), *in)
			return chatOut{Response: answer, Timestamp: time.Now()}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, []string]{
		Method: http.MethodGet,
		Path:   "/suggestions",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]string, error) {
			return h.svc.Suggestions(), nil
		},
	})
}
