package domain

import "context"

// CatalogRepository 部门 / 软件等参考数据，主要供种子数据和引用校验使用
type CatalogRepository interface {
	DepartmentExists(ctx context.Context, id string) (bool, error)
	// Ensure* 按 ID 幂等写入，已存在则不修改
	EnsureDepartment(ctx context.Context, d *Department) error
	EnsureVendor(ctx context.Context, v *Vendor) error
	EnsureSoftware(ctx context.Context, s *Software) error
}
