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

type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context, page domain.Page) (domain.Paged[domain.User], error) {
	page = page.Normalize()
	items, total, err := s.users.List(ctx, page)
	if err != nil {
		return domain.Paged[domain.User]{}, fmt.Errorf("list users: %w", err)
	}
	return domain.NewPaged(items, page, total), nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.Detail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user detail: %w", err)
	}
	if u == nil {
		return nil, domain.NotFound(domain.MsgUserNotFound)
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id string, in UserUpdateInput) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, domain.NotFound(domain.MsgUserNotFound)
	}

	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email != u.Email {
			other, err := s.users.FindByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("find user by email: %w", err)
			}
			if other != nil {
				return nil, domain.Invalid(domain.MsgEmailInUse)
			}
		}
		u.Email = email
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		u.Role = *in.Role
	}

	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Invalid(domain.MsgEmailInUse)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// Delete 不允许删除自己
func (s *UserService) Delete(ctx context.Context, callerID, id string) error {
	if callerID == id {
		return domain.Invalid(domain.MsgCannotDeleteSelf)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound(domain.MsgUserNotFound)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// ChangePassword 本人或 ADMIN 可改；非 ADMIN 需要校验当前密码
func (s *UserService) ChangePassword(ctx context.Context, caller auth.Identity, id string, in ChangePasswordInput) error {
	if caller.ID != id && caller.Role != domain.RoleAdmin {
		return domain.Forbidden(domain.MsgAccessDenied)
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return domain.NotFound(domain.MsgUserNotFound)
	}
	if caller.Role != domain.RoleAdmin && !utils.CheckPassword(in.CurrentPassword, u.PasswordHash) {
		return domain.Invalid(domain.MsgWrongPassword)
	}

	hash, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound(domain.MsgUserNotFound)
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
