package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"it-inventory/internal/domain"
)

type HardwareRepo struct{ db *gorm.DB }

func NewHardwareRepo(db *gorm.DB) *HardwareRepo { return &HardwareRepo{db: db} }

func (r *HardwareRepo) Create(ctx context.Context, h *domain.HardwareItem) error {
	return mapErr(r.db.WithContext(ctx).Omit(clause.Associations).Create(h).Error)
}

func (r *HardwareRepo) first(db *gorm.DB, where string, arg any) (*domain.HardwareItem, error) {
	var h domain.HardwareItem
	err := db.First(&h, where, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &h, err
}

func (r *HardwareRepo) FindByID(ctx context.Context, id string) (*domain.HardwareItem, error) {
	return r.first(r.db.WithContext(ctx), "id = ?", id)
}

func (r *HardwareRepo) FindByAssetTag(ctx context.Context, tag string) (*domain.HardwareItem, error) {
	return r.first(r.db.WithContext(ctx), "asset_tag = ?", tag)
}

func withRefs(db *gorm.DB) *gorm.DB {
	return db.Preload("Vendor").Preload("ResponsibleUser").Preload("Department")
}

func (r *HardwareRepo) Load(ctx context.Context, id string) (*domain.HardwareItem, error) {
	return r.first(withRefs(r.db.WithContext(ctx)), "id = ?", id)
}

func (r *HardwareRepo) Detail(ctx context.Context, id string) (*domain.HardwareItem, error) {
	db := withRefs(r.db.WithContext(ctx)).
		Preload("Attachments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		Preload("Maintenances", func(db *gorm.DB) *gorm.DB { return db.Order("start_date desc") }).
		Preload("Allocations", func(db *gorm.DB) *gorm.DB { return db.Order("checkout_date desc") }).
		Preload("Allocations.AssignedToUser").
		Preload("Allocations.AssignedToDepartment").
		Preload("SoftwareInstalls").
		Preload("SoftwareInstalls.Software").
		Preload("SoftwareInstalls.License")
	return r.first(db, "id = ?", id)
}

func applyFilter(q *gorm.DB, f domain.HardwareFilter) *gorm.DB {
	eq := []struct{ col, val string }{
		{"status", f.Status},
		{"type", f.Type},
		{"responsible_user_id", f.ResponsibleUserID},
		{"department_id", f.DepartmentID},
		{"vendor_id", f.VendorID},
	}
	for _, e := range eq {
		if e.val != "" {
			q = q.Where(e.col+" = ?", e.val)
		}
	}
	return q
}

func (r *HardwareRepo) List(ctx context.Context, f domain.HardwareFilter, page domain.Page) ([]domain.HardwareItem, int64, error) {
	db := r.db.WithContext(ctx)
	var total int64
	if err := applyFilter(db.Model(&domain.HardwareItem{}), f).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []domain.HardwareItem
	err := applyFilter(withRefs(db), f).
		Order("created_at desc").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	att, err := countBy(db, &domain.Attachment{}, "hardware_item_id", ids)
	if err != nil {
		return nil, 0, err
	}
	mnt, err := countBy(db, &domain.Maintenance{}, "hardware_item_id", ids)
	if err != nil {
		return nil, 0, err
	}
	alc, err := countBy(db, &domain.Allocation{}, "hardware_item_id", ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		id := items[i].ID
		items[i].Count = &domain.HardwareCounts{Attachments: att[id], Maintenances: mnt[id], Allocations: alc[id]}
	}
	return items, total, nil
}

func (r *HardwareRepo) Update(ctx context.Context, h *domain.HardwareItem) error {
	return mapErr(r.db.WithContext(ctx).Omit(clause.Associations).Save(h).Error)
}

// Delete 事务内先删附件、维护、分配、安装记录，再删资产
func (r *HardwareRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		children := []any{&domain.Attachment{}, &domain.Maintenance{}, &domain.Allocation{}, &domain.SoftwareInstall{}}
		for _, m := range children {
			if err := tx.Where("hardware_item_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&domain.HardwareItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
