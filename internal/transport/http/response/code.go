package response

import "net/http"

// 各状态码的默认提示（客户端语言为 pt-BR）
var CodeMsgMap = map[int]string{
	http.StatusBadRequest:            "Dados inválidos",
	http.StatusUnauthorized:          "Token de acesso requerido",
	http.StatusForbidden:             "Acesso negado",
	http.StatusNotFound:              "Rota não encontrada",
	http.StatusRequestEntityTooLarge: "Requisição muito grande",
	http.StatusTooManyRequests:       "Muitas requisições. Tente novamente mais tarde.",
	http.StatusInternalServerError:   "Erro interno do servidor",
	http.StatusServiceUnavailable:    "Servidor ocupado. Tente novamente.",
	http.StatusGatewayTimeout:        "Tempo de resposta esgotado",
}

// MsgInvalidToken bearer 无效或过期
const MsgInvalidToken = "Token inválido"
