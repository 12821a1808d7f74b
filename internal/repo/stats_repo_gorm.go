package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"it-inventory/internal/domain"
)

type StatsRepo struct{ db *gorm.DB }

func NewStatsRepo(db *gorm.DB) *StatsRepo { return &StatsRepo{db: db} }

func (r *StatsRepo) CountHardware(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.HardwareItem{}).Count(&n).Error
	return n, err
}

func (r *StatsRepo) HardwareByStatus(ctx context.Context) ([]domain.StatusCount, error) {
	out := []domain.StatusCount{}
	err := r.db.WithContext(ctx).Model(&domain.HardwareItem{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&out).Error
	return out, err
}

func (r *StatsRepo) CountMaintenances(ctx context.Context, statuses ...string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Maintenance{})
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *StatsRepo) CountLicenses(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.License{}).Count(&n).Error
	return n, err
}

func (r *StatsRepo) CountLicensesExpiring(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.License{}).
		Where("end_date >= ? AND end_date <= ?", from, to).
		Count(&n).Error
	return n, err
}

// 资产数 + 授权数 降序，同分按资产数、名称排序
const topVendorsSQL = `
SELECT name, hardware_count, license_count FROM (
	SELECT v.name AS name,
		(SELECT COUNT(*) FROM hardware_items h WHERE h.vendor_id = v.id) AS hardware_count,
		(SELECT COUNT(*) FROM licenses l WHERE l.vendor_id = v.id) AS license_count
	FROM vendors v
) t
ORDER BY hardware_count + license_count DESC, hardware_count DESC, name ASC
LIMIT ?`

func (r *StatsRepo) TopVendors(ctx context.Context, limit int) ([]domain.VendorRank, error) {
	out := []domain.VendorRank{}
	if err := r.db.WithContext(ctx).Raw(topVendorsSQL, limit).Scan(&out).Error; err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Count = out[i].HardwareCount + out[i].LicenseCount
	}
	return out, nil
}
