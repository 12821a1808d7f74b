package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"it-inventory/internal/core/auth"
	"it-inventory/internal/domain"
	"it-inventory/pkg/utils"
)

// Session 登录 / 注册 / 刷新的结果
type Session struct {
	User   *domain.User
	Tokens auth.Pair
}

type AuthService struct {
	users  domain.UserRepository
	tokens *auth.Tokens
}

func NewAuthService(users domain.UserRepository, tokens *auth.Tokens) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func identityOf(u *domain.User) auth.Identity {
	return auth.Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}

func (s *AuthService) session(u *domain.User) (*Session, error) {
	pair, err := s.tokens.Issue(identityOf(u))
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	return &Session{User: u, Tokens: pair}, nil
}

// Register callerRole 为当前请求携带的有效 access token 的角色（可为空），
// 只有 ADMIN 才能指定新用户的角色
func (s *AuthService) Register(ctx context.Context, in RegisterInput, callerRole string) (*Session, error) {
	email := strings.TrimSpace(in.Email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if existing != nil {
		return nil, domain.Invalid(domain.MsgEmailInUse)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	role := domain.RoleColaborador
	if in.Role != "" && callerRole == domain.RoleAdmin {
		role = in.Role
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Invalid(domain.MsgEmailInUse)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.session(u)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	u, err := s.users.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	// 用户不存在与密码错误返回同一消息
	if u == nil || !utils.CheckPassword(in.Password, u.PasswordHash) {
		return nil, domain.Unauthorized(domain.MsgInvalidCredentials)
	}
	return s.session(u)
}

// Refresh 校验 refresh token 后重新读取用户，两个 token 一起轮换
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, domain.Unauthorized(domain.MsgRefreshMissing)
	}
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, domain.Unauthorized(domain.MsgRefreshInvalid)
	}
	u, err := s.users.FindByID(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, domain.Unauthorized(domain.MsgUserNotFound)
	}
	return s.session(u)
}

func (s *AuthService) Me(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, domain.NotFound(domain.MsgUserNotFound)
	}
	return u, nil
}
