package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"it-inventory/internal/domain"
)

type VendorRepo struct{ db *gorm.DB }

func NewVendorRepo(db *gorm.DB) *VendorRepo { return &VendorRepo{db: db} }

func (r *VendorRepo) Create(ctx context.Context, v *domain.Vendor) error {
	return mapErr(r.db.WithContext(ctx).Omit(clause.Associations).Create(v).Error)
}

func (r *VendorRepo) FindByID(ctx context.Context, id string) (*domain.Vendor, error) {
	var v domain.Vendor
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &v, err
}

func (r *VendorRepo) Detail(ctx context.Context, id string) (*domain.Vendor, error) {
	var v domain.Vendor
	err := r.db.WithContext(ctx).
		Preload("HardwareItems").
		Preload("Licenses").
		Preload("Licenses.Software").
		First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &v, err
}

func (r *VendorRepo) List(ctx context.Context, page domain.Page) ([]domain.Vendor, int64, error) {
	db := r.db.WithContext(ctx)
	var total int64
	if err := db.Model(&domain.Vendor{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var vendors []domain.Vendor
	if err := db.Order("name asc").Offset(page.Offset()).Limit(page.Limit).Find(&vendors).Error; err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(vendors))
	for i := range vendors {
		ids[i] = vendors[i].ID
	}
	hw, err := countBy(db, &domain.HardwareItem{}, "vendor_id", ids)
	if err != nil {
		return nil, 0, err
	}
	lic, err := countBy(db, &domain.License{}, "vendor_id", ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range vendors {
		vendors[i].Count = &domain.VendorCounts{HardwareItems: hw[vendors[i].ID], Licenses: lic[vendors[i].ID]}
	}
	return vendors, total, nil
}

func (r *VendorRepo) Update(ctx context.Context, v *domain.Vendor) error {
	return mapErr(r.db.WithContext(ctx).Omit(clause.Associations).Save(v).Error)
}

// Delete 事务内把资产、授权、软件上的 vendor_id 置空后删除
func (r *VendorRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		refs := []any{&domain.HardwareItem{}, &domain.License{}, &domain.Software{}}
		for _, m := range refs {
			if err := tx.Model(m).Where("vendor_id = ?", id).Update("vendor_id", nil).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&domain.Vendor{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
