package repo

import (
	"gorm.io/gorm"

	"it-inventory/internal/domain"
)

// Models 需要建表的全部模型（*Ref 只是投影，不参与迁移）
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Department{},
		&domain.Vendor{},
		&domain.Software{},
		&domain.License{},
		&domain.HardwareItem{},
		&domain.Maintenance{},
		&domain.Allocation{},
		&domain.Attachment{},
		&domain.SoftwareInstall{},
		&domain.AuditLog{},
	}
}

func Migrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }
