package service

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"it-inventory/internal/domain"
)

// 请求体；binding 标签由 gin 内置的 validator 校验

type RegisterInput struct {
	Name     string `json:"name" binding:"required,min=2,max=120"`
	Email    string `json:"email" binding:"required,email,max=191"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Role     string `json:"role" binding:"omitempty,oneof=ADMIN GESTOR COLABORADOR"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserUpdateInput struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=120"`
	Email *string `json:"email" binding:"omitempty,email,max=191"`
	Role  *string `json:"role" binding:"omitempty,oneof=ADMIN GESTOR COLABORADOR"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=72"`
}

// HardwareFields 创建和更新共用的可选字段
type HardwareFields struct {
	Brand             *string    `json:"brand" binding:"omitempty,max=120"`
	Model             *string    `json:"model" binding:"omitempty,max=120"`
	SerialNumber      *string    `json:"serialNumber" binding:"omitempty,max=120"`
	PurchaseDate      *Date    `json:"purchaseDate"`
	PurchaseCost      *float64 `json:"purchaseCost" binding:"omitempty,gte=0"`
	VendorID          *string  `json:"vendorId" binding:"omitempty,max=36"`
	WarrantyEndDate   *Date    `json:"warrantyEndDate"`
	Status            *string  `json:"status" binding:"omitempty,oneof=EM_USO EM_ESTOQUE EM_MANUTENCAO DESATIVADO EMPRESTADO"`
	Condition         *string  `json:"condition" binding:"omitempty,oneof=NOVO BOM REGULAR RUIM"`
	Location          *string  `json:"location" binding:"omitempty,max=191"`
	ResponsibleUserID *string  `json:"responsibleUserId" binding:"omitempty,max=36"`
	DepartmentID      *string  `json:"departmentId" binding:"omitempty,max=36"`
	Notes             *string  `json:"notes"`
}

func (f HardwareFields) applyTo(h *domain.HardwareItem) {
	setIf(&h.Brand, f.Brand)
	setIf(&h.Model, f.Model)
	setIf(&h.SerialNumber, f.SerialNumber)
	setDate(&h.PurchaseDate, f.PurchaseDate)
	setIf(&h.PurchaseCost, f.PurchaseCost)
	setRef(&h.VendorID, f.VendorID)
	setDate(&h.WarrantyEndDate, f.WarrantyEndDate)
	setIf(&h.Location, f.Location)
	setRef(&h.ResponsibleUserID, f.ResponsibleUserID)
	setRef(&h.DepartmentID, f.DepartmentID)
	setIf(&h.Notes, f.Notes)
	if f.Status != nil {
		h.Status = *f.Status
	}
	if f.Condition != nil {
		h.Condition = *f.Condition
	}
}

type HardwareCreateInput struct {
	AssetTag string `json:"assetTag" binding:"required,max=64"`
	Type     string `json:"type" binding:"required,oneof=LAPTOP IMPRESSORA MONITOR PERIFERICO REDE OUTRO"`
	HardwareFields
}

type HardwareUpdateInput struct {
	AssetTag *string `json:"assetTag" binding:"omitempty,min=1,max=64"`
	Type     *string `json:"type" binding:"omitempty,oneof=LAPTOP IMPRESSORA MONITOR PERIFERICO REDE OUTRO"`
	HardwareFields
}

// HardwareQuery GET /hardware 的查询参数
type HardwareQuery struct {
	domain.Page
	Status            string `form:"status"`
	Type              string `form:"type"`
	ResponsibleUserID string `form:"responsibleUserId"`
	DepartmentID      string `form:"departmentId"`
	VendorID          string `form:"vendorId"`
}

func (q HardwareQuery) Filter() domain.HardwareFilter {
	return domain.HardwareFilter{
		Status:            q.Status,
		Type:              q.Type,
		ResponsibleUserID: q.ResponsibleUserID,
		DepartmentID:      q.DepartmentID,
		VendorID:          q.VendorID,
	}
}

type VendorFields struct {
	CNPJ         *string `json:"cnpj" binding:"omitempty,max=32"`
	ContactEmail *string `json:"contactEmail" binding:"omitempty,email,max=191"`
	ContactPhone *string `json:"contactPhone" binding:"omitempty,max=64"`
	Address      *string `json:"address" binding:"omitempty,max=255"`
	Notes        *string `json:"notes"`
}

func (f VendorFields) applyTo(v *domain.Vendor) {
	setIf(&v.CNPJ, f.CNPJ)
	setIf(&v.ContactEmail, f.ContactEmail)
	setIf(&v.ContactPhone, f.ContactPhone)
	setIf(&v.Address, f.Address)
	setIf(&v.Notes, f.Notes)
}

type VendorCreateInput struct {
	Name string `json:"name" binding:"required,max=191"`
	Type string `json:"type" binding:"required,oneof=LOJA_FISICA E_COMMERCE MARKETPLACE FABRICANTE"`
	VendorFields
}

type VendorUpdateInput struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=191"`
	Type *string `json:"type" binding:"omitempty,oneof=LOJA_FISICA E_COMMERCE MARKETPLACE FABRICANTE"`
	VendorFields
}

type ChatInput struct {
	Message string `json:"message" binding:"required,max=4000"`
	Context string `json:"context" binding:"omitempty,max=4000"`
}

// setIf src 非 nil 时覆盖 dst
func setIf[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// refID 外键入参去空白，空串视为未关联
func refID(src *string) string {
	if src == nil {
		return ""
	}
	return strings.TrimSpace(*src)
}

// setRef nil 不修改，空串清除关联
func setRef(dst **string, src *string) {
	if src == nil {
		return
	}
	if id := refID(src); id != "" {
		*dst = &id
	} else {
		*dst = nil
	}
}

// setDate 空日期视为未填写
func setDate(dst **time.Time, src *Date) {
	if src != nil && !src.IsZero() {
		t := src.Time
		*dst = &t
	}
}

// Date 接受 YYYY-MM-DD 与 RFC3339，空串按未填写处理
type Date struct {
	time.Time
}

const dateOnly = "2006-01-02"

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(dateOnly, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	d.Time = t.UTC()
	return nil
}
