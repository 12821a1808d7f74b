package domain

import (
	"context"
	"time"
)

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type VendorRank struct {
	Name          string `json:"name"`
	Count         int64  `json:"count"`
	HardwareCount int64  `json:"-"`
	LicenseCount  int64  `json:"-"`
}

type LicenseWindows struct {
	In30Days int64 `json:"in30Days"`
	In60Days int64 `json:"in60Days"`
	In90Days int64 `json:"in90Days"`
}

type DashboardStats struct {
	TotalAssets        int64            `json:"totalAssets"`
	AssetsByStatus     map[string]int64 `json:"assetsByStatus"` // 状态 -> 数量，未出现的状态为 0
	ItemsInMaintenance int64            `json:"itemsInMaintenance"`
	LicensesExpiring   LicenseWindows   `json:"licensesExpiring"`
	TopVendors         []VendorRank     `json:"topVendors"`
}

// StatsRepository 仪表盘与聊天摘要共用的只读统计
type StatsRepository interface {
	CountHardware(ctx context.Context) (int64, error)
	HardwareByStatus(ctx context.Context) ([]StatusCount, error)
	CountMaintenances(ctx context.Context, statuses ...string) (int64, error)
	CountLicenses(ctx context.Context) (int64, error)
	// CountLicensesExpiring endDate ∈ [from, to]
	CountLicensesExpiring(ctx context.Context, from, to time.Time) (int64, error)
	TopVendors(ctx context.Context, limit int) ([]VendorRank, error)
}
