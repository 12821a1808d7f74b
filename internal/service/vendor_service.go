package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"it-inventory/internal/domain"
	"it-inventory/pkg/utils"
)

type VendorService struct {
	vendors domain.VendorRepository
}

func NewVendorService(vendors domain.VendorRepository) *VendorService {
	return &VendorService{vendors: vendors}
}

func (s *VendorService) List(ctx context.Context, page domain.Page) (domain.Paged[domain.Vendor], error) {
	page = page.Normalize()
	items, total, err := s.vendors.List(ctx, page)
	if err != nil {
		return domain.Paged[domain.Vendor]{}, fmt.Errorf("list vendors: %w", err)
	}
	return domain.NewPaged(items, page, total), nil
}

func (s *VendorService) Get(ctx context.Context, id string) (*domain.Vendor, error) {
	v, err := s.vendors.Detail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("vendor detail: %w", err)
	}
	if v == nil {
		return nil, domain.NotFound(domain.MsgVendorNotFound)
	}
	return v, nil
}

func (s *VendorService) Create(ctx context.Context, in VendorCreateInput) (*domain.Vendor, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid(domain.MsgInvalidData)
	}
	v := &domain.Vendor{ID: utils.NewID(), Name: name, Type: in.Type}
	in.VendorFields.applyTo(v)
	if err := s.vendors.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("create vendor: %w", err)
	}
	return v, nil
}

func (s *VendorService) Update(ctx context.Context, id string, in VendorUpdateInput) (*domain.Vendor, error) {
	v, err := s.vendors.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find vendor: %w", err)
	}
	if v == nil {
		return nil, domain.NotFound(domain.MsgVendorNotFound)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid(domain.MsgInvalidData)
		}
		v.Name = name
	}
	if in.Type != nil {
		v.Type = *in.Type
	}
	in.VendorFields.applyTo(v)
	if err := s.vendors.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("update vendor: %w", err)
	}
	return v, nil
}

func (s *VendorService) Delete(ctx context.Context, id string) error {
	if err := s.vendors.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound(domain.MsgVendorNotFound)
		}
		return fmt.Errorf("delete vendor: %w", err)
	}
	return nil
}
