package domain

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInvalid Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
)

// Error 业务错误，Msg 直接返回给客户端
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func Invalid(msg string) error      { return &Error{Kind: KindInvalid, Msg: msg} }
func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &Error{Kind: KindForbidden, Msg: msg} }
func NotFound(msg string) error     { return &Error{Kind: KindNotFound, Msg: msg} }

// ErrNotFound 仓储层未命中
var ErrNotFound = errors.New("record not found")

// ErrDuplicate 唯一索引冲突
var ErrDuplicate = errors.New("duplicate key")

// 客户端消息
const (
	MsgInvalidData        = "Dados inválidos"
	MsgAssetTagInUse      = "Tag do ativo já está em uso"
	MsgEmailInUse         = "Email já está em uso"
	MsgItemNotFound       = "Item não encontrado"
	MsgVendorNotFound     = "Fornecedor não encontrado"
	MsgUserNotFound       = "Usuário não encontrado"
	MsgDeptNotFound       = "Departamento não encontrado"
	MsgCannotDeleteSelf   = "Não é possível excluir sua própria conta"
	MsgWrongPassword      = "Senha atual incorreta"
	MsgAccessDenied       = "Acesso negado"
	MsgInvalidCredentials = "Credenciais inválidas"
	MsgRefreshMissing     = "Refresh token não encontrado"
	MsgRefreshInvalid     = "Refresh token inválido"
)

// KindOf 非业务错误返回 0
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}
