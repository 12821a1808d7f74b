package response

import "github.com/gin-gonic/gin"

// Err 所有错误响应的统一结构
type Err struct {
	Error string `json:"error"`
}

// Message 删除、登出等只返回提示的响应
type Message struct {
	Message string `json:"message"`
}

// Error 自定义 msg 为空时使用状态码默认提示
func Error(status int, customMsg string) Err {
	msg := customMsg
	if msg == "" {
		msg = CodeMsgMap[status]
	}
	if msg == "" {
		msg = CodeMsgMap[500]
	}
	return Err{Error: msg}
}

// Abort 写错误响应并终止后续 handler
func Abort(c *gin.Context, status int, customMsg string) {
	c.AbortWithStatusJSON(status, Error(status, customMsg))
}
