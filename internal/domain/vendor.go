package domain

import (
	"context"
	"time"
)

const (
	VendorLojaFisica  = "LOJA_FISICA"
	VendorECommerce   = "E_COMMERCE"
	VendorMarketplace = "MARKETPLACE"
	VendorFabricante  = "FABRICANTE"
)

type Vendor struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"size:191;not null;index" json:"name"`
	Type         string    `gorm:"size:16;not null" json:"type"`
	CNPJ         *string   `gorm:"column:cnpj;size:32" json:"cnpj"`
	ContactEmail *string   `gorm:"size:191" json:"contactEmail"`
	ContactPhone *string   `gorm:"size:64" json:"contactPhone"`
	Address      *string   `gorm:"size:255" json:"address"`
	Notes        *string   `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	HardwareItems []HardwareRef `gorm:"foreignKey:VendorID" json:"hardwareItems,omitempty"`
	Licenses      []License     `gorm:"foreignKey:VendorID" json:"licenses,omitempty"`
	Count         *VendorCounts `gorm:"-" json:"_count,omitempty"`
}

func (Vendor) TableName() string { return "vendors" }

type VendorCounts struct {
	HardwareItems int64 `json:"hardwareItems"`
	Licenses      int64 `json:"licenses"`
}

type VendorRepository interface {
	Create(ctx context.Context, v *Vendor) error
	FindByID(ctx context.Context, id string) (*Vendor, error)
	Detail(ctx context.Context, id string) (*Vendor, error)
	List(ctx context.Context, page Page) ([]Vendor, int64, error)
	Update(ctx context.Context, v *Vendor) error
	Delete(ctx context.Context, id string) error
}
