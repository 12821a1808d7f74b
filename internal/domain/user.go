package domain

import (
	"context"
	"time"
)

// 角色
const (
	RoleAdmin       = "ADMIN"
	RoleGestor      = "GESTOR"
	RoleColaborador = "COLABORADOR"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"size:120;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Role         string    `gorm:"size:16;not null;default:COLABORADOR" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	HardwareItems []HardwareRef `gorm:"foreignKey:ResponsibleUserID" json:"hardwareItems,omitempty"`
	Allocations   []Allocation  `gorm:"foreignKey:AssignedToUserID" json:"allocations,omitempty"`
	Count         *UserCounts   `gorm:"-" json:"_count,omitempty"`
}

func (User) TableName() string { return "users" }

// UserRef 关联展开时只暴露公开字段
type UserRef struct {
	ID    string `gorm:"primaryKey" json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (UserRef) TableName() string { return "users" }

type UserCounts struct {
	HardwareItems int64 `json:"hardwareItems"`
	Allocations   int64 `json:"allocations"`
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Detail(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, page Page) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}
