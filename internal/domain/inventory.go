package domain

import "time"

// 维护状态
const (
	MaintenanceAberta      = "ABERTA"
	MaintenanceEmAndamento = "EM_ANDAMENTO"
	MaintenanceConcluida   = "CONCLUIDA"
	MaintenanceCancelada   = "CANCELADA"
)

// OpenMaintenanceStatuses 仪表盘统计的"进行中"维护
var OpenMaintenanceStatuses = []string{MaintenanceAberta, MaintenanceEmAndamento}

const (
	RenewalMensal   = "MENSAL"
	RenewalAnual    = "ANUAL"
	RenewalPerpetua = "PERPETUA"
)

type Department struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:120;not null" json:"name"`
	Description *string   `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Department) TableName() string { return "departments" }

type Software struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:191;not null;index" json:"name"`
	Version   *string   `gorm:"size:64" json:"version"`
	Category  *string   `gorm:"size:64" json:"category"`
	Notes     *string   `gorm:"type:text" json:"notes"`
	VendorID  *string   `gorm:"size:36;index" json:"vendorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Software) TableName() string { return "software" }

type License struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	SoftwareID   string     `gorm:"size:36;not null;index" json:"softwareId"`
	Key          *string    `gorm:"column:license_key;size:255" json:"key"`
	SeatsTotal   int        `gorm:"not null;default:1" json:"seatsTotal"`
	PurchaseDate *time.Time `json:"purchaseDate"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `gorm:"index" json:"endDate"`
	RenewalType  string     `gorm:"size:16;not null;default:ANUAL" json:"renewalType"`
	Cost         *float64   `json:"cost"`
	VendorID     *string    `gorm:"size:36;index" json:"vendorId"`
	Notes        *string    `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	Software *SoftwareRef `gorm:"foreignKey:SoftwareID" json:"software,omitempty"`
}

func (License) TableName() string { return "licenses" }

// SoftwareRef 授权列表里只带名称和版本
type SoftwareRef struct {
	ID      string  `gorm:"primaryKey" json:"id"`
	Name    string  `json:"name"`
	Version *string `json:"version"`
}

func (SoftwareRef) TableName() string { return "software" }

type Maintenance struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	HardwareItemID string     `gorm:"size:36;not null;index" json:"hardwareItemId"`
	StartDate      time.Time  `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
	Provider       *string    `gorm:"size:191" json:"provider"`
	Description    string     `gorm:"type:text;not null" json:"description"`
	Cost           *float64   `json:"cost"`
	Status         string     `gorm:"size:16;not null;index;default:ABERTA" json:"status"`
	Notes          *string    `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (Maintenance) TableName() string { return "maintenances" }

type Allocation struct {
	ID                     string     `gorm:"primaryKey;size:36" json:"id"`
	HardwareItemID         string     `gorm:"size:36;not null;index" json:"hardwareItemId"`
	AssignedToUserID       *string    `gorm:"size:36;index" json:"assignedToUserId"`
	AssignedToDepartmentID *string    `gorm:"size:36;index" json:"assignedToDepartmentId"`
	CheckoutDate           time.Time  `json:"checkoutDate"`
	ExpectedReturnDate     *time.Time `json:"expectedReturnDate"`
	ReturnDate             *time.Time `json:"returnDate"`
	Notes                  *string    `gorm:"type:text" json:"notes"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`

	AssignedToUser       *UserRef     `gorm:"foreignKey:AssignedToUserID" json:"assignedToUser,omitempty"`
	AssignedToDepartment *Department  `gorm:"foreignKey:AssignedToDepartmentID" json:"assignedToDepartment,omitempty"`
	HardwareItem         *HardwareRef `gorm:"foreignKey:HardwareItemID" json:"hardwareItem,omitempty"`
}

func (Allocation) TableName() string { return "allocations" }

type Attachment struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	HardwareItemID string    `gorm:"size:36;not null;index" json:"hardwareItemId"`
	FileName       string    `gorm:"size:255;not null" json:"fileName"`
	URL            string    `gorm:"size:1024;not null" json:"url"`
	MimeType       *string   `gorm:"size:128" json:"mimeType"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (Attachment) TableName() string { return "attachments" }

type SoftwareInstall struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	HardwareItemID string    `gorm:"size:36;not null;index" json:"hardwareItemId"`
	SoftwareID     string    `gorm:"size:36;not null;index" json:"softwareId"`
	LicenseID      *string   `gorm:"size:36;index" json:"licenseId"`
	InstalledAt    time.Time `json:"installedAt"`

	Software *Software `json:"software,omitempty"`
	License  *License  `json:"license,omitempty"`
}

func (SoftwareInstall) TableName() string { return "software_installs" }
