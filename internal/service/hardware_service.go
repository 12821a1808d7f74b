package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"it-inventory/internal/domain"
	"it-inventory/pkg/utils"
)

type HardwareService struct {
	items   domain.HardwareRepository
	vendors domain.VendorRepository
	users   domain.UserRepository
	catalog domain.CatalogRepository
}

func NewHardwareService(items domain.HardwareRepository, vendors domain.VendorRepository,
	users domain.UserRepository, catalog domain.CatalogRepository) *HardwareService {
	return &HardwareService{items: items, vendors: vendors, users: users, catalog: catalog}
}

func (s *HardwareService) List(ctx context.Context, q HardwareQuery) (domain.Paged[domain.HardwareItem], error) {
	page := q.Page.Normalize()
	items, total, err := s.items.List(ctx, q.Filter(), page)
	if err != nil {
		return domain.Paged[domain.HardwareItem]{}, fmt.Errorf("list hardware: %w", err)
	}
	return domain.NewPaged(items, page, total), nil
}

func (s *HardwareService) Get(ctx context.Context, id string) (*domain.HardwareDetail, error) {
	h, err := s.items.Detail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("hardware detail: %w", err)
	}
	if h == nil {
		return nil, domain.NotFound(domain.MsgItemNotFound)
	}
	return domain.NewHardwareDetail(h), nil
}

// checkRefs 外键由应用层校验，三种数据库行为一致
func (s *HardwareService) checkRefs(ctx context.Context, f HardwareFields) error {
	if id := refID(f.VendorID); id != "" {
		v, err := s.vendors.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("find vendor: %w", err)
		}
		if v == nil {
			return domain.Invalid(domain.MsgVendorNotFound)
		}
	}
	if id := refID(f.ResponsibleUserID); id != "" {
		ok, err := s.users.Exists(ctx, id)
		if err != nil {
			return fmt.Errorf("check user: %w", err)
		}
		if !ok {
			return domain.Invalid(domain.MsgUserNotFound)
		}
	}
	if id := refID(f.DepartmentID); id != "" {
		ok, err := s.catalog.DepartmentExists(ctx, id)
		if err != nil {
			return fmt.Errorf("check department: %w", err)
		}
		if !ok {
			return domain.Invalid(domain.MsgDeptNotFound)
		}
	}
	return nil
}

func (s *HardwareService) tagTaken(ctx context.Context, tag, selfID string) error {
	other, err := s.items.FindByAssetTag(ctx, tag)
	if err != nil {
		return fmt.Errorf("find by asset tag: %w", err)
	}
	if other != nil && other.ID != selfID {
		return domain.Invalid(domain.MsgAssetTagInUse)
	}
	return nil
}

func (s *HardwareService) Create(ctx context.Context, in HardwareCreateInput) (*domain.HardwareItem, error) {
	tag := strings.TrimSpace(in.AssetTag)
	if tag == "" {
		return nil, domain.Invalid(domain.MsgInvalidData)
	}
	if err := s.tagTaken(ctx, tag, ""); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, in.HardwareFields); err != nil {
		return nil, err
	}

	h := &domain.HardwareItem{
		ID:        utils.NewID(),
		AssetTag:  tag,
		Type:      in.Type,
		Status:    domain.StatusEmEstoque,
		Condition: domain.ConditionBom,
	}
	in.HardwareFields.applyTo(h)
	if err := s.items.Create(ctx, h); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Invalid(domain.MsgAssetTagInUse)
		}
		return nil, fmt.Errorf("create hardware: %w", err)
	}
	return s.load(ctx, h.ID)
}

func (s *HardwareService) Update(ctx context.Context, id string, in HardwareUpdateInput) (*domain.HardwareItem, error) {
	h, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find hardware: %w", err)
	}
	if h == nil {
		return nil, domain.NotFound(domain.MsgItemNotFound)
	}
	if in.AssetTag != nil {
		tag := strings.TrimSpace(*in.AssetTag)
		if tag == "" {
			return nil, domain.Invalid(domain.MsgInvalidData)
		}
		if tag != h.AssetTag {
			if err := s.tagTaken(ctx, tag, h.ID); err != nil {
				return nil, err
			}
		}
		h.AssetTag = tag
	}
	if in.Type != nil {
		h.Type = *in.Type
	}
	if err := s.checkRefs(ctx, in.HardwareFields); err != nil {
		return nil, err
	}
	in.HardwareFields.applyTo(h)

	if err := s.items.Update(ctx, h); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Invalid(domain.MsgAssetTagInUse)
		}
		return nil, fmt.Errorf("update hardware: %w", err)
	}
	return s.load(ctx, h.ID)
}

func (s *HardwareService) load(ctx context.Context, id string) (*domain.HardwareItem, error) {
	h, err := s.items.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load hardware: %w", err)
	}
	if h == nil {
		return nil, domain.NotFound(domain.MsgItemNotFound)
	}
	return h, nil
}

func (s *HardwareService) Delete(ctx context.Context, id string) error {
	if err := s.items.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound(domain.MsgItemNotFound)
		}
		return fmt.Errorf("delete hardware: %w", err)
	}
	return nil
}
