package domain

import (
	"context"
	"time"
)

// 资产状态
const (
	StatusEmUso         = "EM_USO"
	StatusEmEstoque     = "EM_ESTOQUE"
	StatusEmManutencao  = "EM_MANUTENCAO"
	StatusDesativado    = "DESATIVADO"
	StatusEmprestado    = "EMPRESTADO"
	ConditionBom        = "BOM"
	HardwareTypeOutro   = "OUTRO"
	HardwareTypeLaptop  = "LAPTOP"
	HardwareTypeMonitor = "MONITOR"
)

var HardwareStatuses = []string{StatusEmUso, StatusEmEstoque, StatusEmManutencao, StatusDesativado, StatusEmprestado}

type HardwareItem struct {
	ID                string     `gorm:"primaryKey;size:36" json:"id"`
	AssetTag          string     `gorm:"uniqueIndex;size:64;not null" json:"assetTag"`
	Type              string     `gorm:"size:16;not null;index" json:"type"`
	Brand             *string    `gorm:"size:120" json:"brand"`
	Model             *string    `gorm:"size:120" json:"model"`
	SerialNumber      *string    `gorm:"size:120" json:"serialNumber"`
	PurchaseDate      *time.Time `json:"purchaseDate"`
	PurchaseCost      *float64   `json:"purchaseCost"`
	VendorID          *string    `gorm:"size:36;index" json:"vendorId"`
	WarrantyEndDate   *time.Time `json:"warrantyEndDate"`
	Status            string     `gorm:"size:16;not null;index;default:EM_ESTOQUE" json:"status"`
	Condition         string     `gorm:"size:16;not null;default:BOM" json:"condition"`
	Location          *string    `gorm:"size:191" json:"location"`
	ResponsibleUserID *string    `gorm:"size:36;index" json:"responsibleUserId"`
	DepartmentID      *string    `gorm:"size:36;index" json:"departmentId"`
	Notes             *string    `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`

	Vendor          *Vendor     `json:"vendor"`
	ResponsibleUser *UserRef    `gorm:"foreignKey:ResponsibleUserID" json:"responsibleUser"`
	Department      *Department `json:"department"`

	Attachments      []Attachment      `json:"attachments,omitempty"`
	Maintenances     []Maintenance     `json:"maintenances,omitempty"`
	Allocations      []Allocation      `json:"allocations,omitempty"`
	SoftwareInstalls []SoftwareInstall `json:"softwareInstalls,omitempty"`

	Count *HardwareCounts `gorm:"-" json:"_count,omitempty"`
}

func (HardwareItem) TableName() string { return "hardware_items" }

// HardwareDetail GET /hardware/:id 的响应，关联列表为空时输出 []
type HardwareDetail struct {
	*HardwareItem
	Attachments      []Attachment      `json:"attachments"`
	Maintenances     []Maintenance     `json:"maintenances"`
	Allocations      []Allocation      `json:"allocations"`
	SoftwareInstalls []SoftwareInstall `json:"softwareInstalls"`
}

func NewHardwareDetail(h *HardwareItem) *HardwareDetail {
	return &HardwareDetail{
		HardwareItem:     h,
		Attachments:      orEmpty(h.Attachments),
		Maintenances:     orEmpty(h.Maintenances),
		Allocations:      orEmpty(h.Allocations),
		SoftwareInstalls: orEmpty(h.SoftwareInstalls),
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// HardwareRef 用户 / 供应商详情里的精简资产
type HardwareRef struct {
	ID                string  `gorm:"primaryKey" json:"id"`
	AssetTag          string  `json:"assetTag"`
	Type              string  `json:"type"`
	Brand             *string `json:"brand"`
	Model             *string `json:"model"`
	Status            string  `json:"status"`
	VendorID          *string `json:"-"`
	ResponsibleUserID *string `json:"-"`
}

func (HardwareRef) TableName() string { return "hardware_items" }

type HardwareCounts struct {
	Attachments  int64 `json:"attachments"`
	Maintenances int64 `json:"maintenances"`
	Allocations  int64 `json:"allocations"`
}

// HardwareFilter 等值过滤，空字符串表示不限制
type HardwareFilter struct {
	Status            string
	Type              string
	ResponsibleUserID string
	DepartmentID      string
	VendorID          string
}

type HardwareRepository interface {
	Create(ctx context.Context, h *HardwareItem) error
	FindByID(ctx context.Context, id string) (*HardwareItem, error)
	FindByAssetTag(ctx context.Context, tag string) (*HardwareItem, error)
	// Load 单层展开（vendor / responsibleUser / department）
	Load(ctx context.Context, id string) (*HardwareItem, error)
	// Detail 两层展开
	Detail(ctx context.Context, id string) (*HardwareItem, error)
	List(ctx context.Context, f HardwareFilter, page Page) ([]HardwareItem, int64, error)
	Update(ctx context.Context, h *HardwareItem) error
	Delete(ctx context.Context, id string) error
}
