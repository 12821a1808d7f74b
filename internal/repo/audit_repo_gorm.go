package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"it-inventory/internal/domain"
)

type AuditRepo struct{ db *gorm.DB }

func NewAuditRepo(db *gorm.DB) *AuditRepo { return &AuditRepo{db: db} }

func (r *AuditRepo) Create(ctx context.Context, a *domain.AuditLog) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

// Recent 最近 limit 条，带操作人姓名 / 邮箱
func (r *AuditRepo) Recent(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	var logs []domain.AuditLog
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("timestamp desc").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
