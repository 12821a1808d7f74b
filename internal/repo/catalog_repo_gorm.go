package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"it-inventory/internal/domain"
)

type CatalogRepo struct{ db *gorm.DB }

func NewCatalogRepo(db *gorm.DB) *CatalogRepo { return &CatalogRepo{db: db} }

func (r *CatalogRepo) DepartmentExists(ctx context.Context, id string) (bool, error) {
	return exists(r.db.WithContext(ctx), &domain.Department{}, id)
}

func (r *CatalogRepo) ensure(ctx context.Context, v any) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(v).Error
}

func (r *CatalogRepo) EnsureDepartment(ctx context.Context, d *domain.Department) error {
	return r.ensure(ctx, d)
}

func (r *CatalogRepo) EnsureVendor(ctx context.Context, v *domain.Vendor) error {
	return r.ensure(ctx, v)
}

func (r *CatalogRepo) EnsureSoftware(ctx context.Context, s *domain.Software) error {
	return r.ensure(ctx, s)
}
