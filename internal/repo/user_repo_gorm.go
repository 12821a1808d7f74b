package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"it-inventory/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return mapErr(r.db.WithContext(ctx).Omit(clause.Associations).Create(u).Error)
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) Exists(ctx context.Context, id string) (bool, error) {
	return exists(r.db.WithContext(ctx), &domain.User{}, id)
}

// Detail 带负责的资产和分配记录（含资产摘要）
func (r *UserRepo) Detail(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Preload("HardwareItems").
		Preload("Allocations", func(db *gorm.DB) *gorm.DB { return db.Order("checkout_date desc") }).
		Preload("Allocations.HardwareItem").
		First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) List(ctx context.Context, page domain.Page) ([]domain.User, int64, error) {
	db := r.db.WithContext(ctx)
	var total int64
	if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	if err := db.Order("name asc").Offset(page.Offset()).Limit(page.Limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	hw, err := countBy(db, &domain.HardwareItem{}, "responsible_user_id", ids)
	if err != nil {
		return nil, 0, err
	}
	al, err := countBy(db, &domain.Allocation{}, "assigned_to_user_id", ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range users {
		users[i].Count = &domain.UserCounts{HardwareItems: hw[users[i].ID], Allocations: al[users[i].ID]}
	}
	return users, total, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	return mapErr(r.db.WithContext(ctx).Omit(clause.Associations).Save(u).Error)
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete 事务内解除资产负责人、分配、审计记录对该用户的引用后删除
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.HardwareItem{}).Where("responsible_user_id = ?", id).
			Update("responsible_user_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Allocation{}).Where("assigned_to_user_id = ?", id).
			Update("assigned_to_user_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.AuditLog{}).Where("user_id = ?", id).
			Update("user_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
