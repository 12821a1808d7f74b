package domain

import (
	"context"
	"time"
)

// 审计实体类型
const (
	EntityHardware = "HARDWARE"
	EntityVendor   = "VENDOR"
	EntityUser     = "USER"
)

type AuditLog struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     *string   `gorm:"size:36;index" json:"userId"`
	EntityType string    `gorm:"size:32;not null;index" json:"entityType"`
	EntityID   string    `gorm:"size:64;not null" json:"entityId"`
	Action     string    `gorm:"size:255;not null" json:"action"`
	OldValues  *string   `gorm:"type:text" json:"oldValues"`
	NewValues  *string   `gorm:"type:text" json:"newValues"`
	Timestamp  time.Time `gorm:"index" json:"timestamp"`

	User *UserRef `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuditLog) TableName() string { return "audit_logs" }

type AuditRepository interface {
	Create(ctx context.Context, a *AuditLog) error
	Recent(ctx context.Context, limit int) ([]AuditLog, error)
}
