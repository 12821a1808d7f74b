package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"it-inventory/internal/domain"
	"it-inventory/pkg/utils"
)

type Admin struct {
	Name     string
	Email    string
	Password string
}

var ErrNoAdminPassword = errors.New("seed: admin password is required")

func str(s string) *string { return &s }

var departments = []domain.Department{
	{ID: "dept-ti", Name: "Tecnologia da Informação", Description: str("Departamento responsável pela infraestrutura de TI")},
	{ID: "dept-rh", Name: "Recursos Humanos", Description: str("Departamento de gestão de pessoas")},
	{ID: "dept-financeiro", Name: "Financeiro", Description: str("Departamento financeiro e contábil")},
}

var vendors = []domain.Vendor{
	{ID: "vendor-apple", Name: "Apple Inc.", Type: domain.VendorFabricante,
		ContactEmail: str("contato@apple.com"), Notes: str("Fornecedor de equipamentos Apple")},
	{ID: "vendor-dell", Name: "Dell Technologies", Type: domain.VendorFabricante,
		ContactEmail: str("contato@dell.com"), Notes: str("Fornecedor de equipamentos Dell")},
	{ID: "vendor-microsoft", Name: "Microsoft Corporation", Type: domain.VendorFabricante,
		ContactEmail: str("contato@microsoft.com"), Notes: str("Fornecedor de software Microsoft")},
}

var software = []domain.Software{
	{ID: "soft-office365", Name: "Microsoft Office 365", Version: str("2024"), Category: str("Produtividade"),
		VendorID: str("vendor-microsoft"), Notes: str("Suite de produtividade Microsoft")},
	{ID: "soft-windows11", Name: "Windows 11 Pro", Version: str("23H2"), Category: str("Sistema Operacional"),
		VendorID: str("vendor-microsoft"), Notes: str("Sistema operacional Windows 11")},
}

// Run 可重复执行：已存在的记录保持原样
func Run(ctx context.Context, users domain.UserRepository, catalog domain.CatalogRepository, admin Admin, l *zap.Logger) error {
	if err := ensureAdmin(ctx, users, admin, l); err != nil {
		return err
	}
	for i := range departments {
		d := departments[i]
		if err := catalog.EnsureDepartment(ctx, &d); err != nil {
			return fmt.Errorf("seed department %s: %w", d.ID, err)
		}
	}
	l.Info("departments ready", zap.Int("count", len(departments)))

	for i := range vendors {
		v := vendors[i]
		if err := catalog.EnsureVendor(ctx, &v); err != nil {
			return fmt.Errorf("seed vendor %s: %w", v.ID, err)
		}
	}
	l.Info("vendors ready", zap.Int("count", len(vendors)))

	for i := range software {
		s := software[i]
		if err := catalog.EnsureSoftware(ctx, &s); err != nil {
			return fmt.Errorf("seed software %s: %w", s.ID, err)
		}
	}
	l.Info("software ready", zap.Int("count", len(software)))
	return nil
}

func ensureAdmin(ctx context.Context, users domain.UserRepository, a Admin, l *zap.Logger) error {
	u, err := users.FindByEmail(ctx, a.Email)
	if err != nil {
		return fmt.Errorf("seed admin lookup: %w", err)
	}
	if u != nil {
		l.Info("admin already present", zap.String("email", a.Email))
		return nil
	}
	if a.Password == "" {
		return ErrNoAdminPassword
	}
	hash, err := utils.HashPassword(a.Password)
	if err != nil {
		return fmt.Errorf("seed admin hash: %w", err)
	}
	u = &domain.User{ID: utils.NewID(), Name: a.Name, Email: a.Email, PasswordHash: hash, Role: domain.RoleAdmin}
	if err := users.Create(ctx, u); err != nil {
		return fmt.Errorf("seed admin create: %w", err)
	}
	l.Info("admin created", zap.String("email", a.Email))
	return nil
}
