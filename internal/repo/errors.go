package repo

import (
	"errors"

	"gorm.io/gorm"

	"it-inventory/internal/domain"
)

// mapErr 把 gorm 的错误翻译成领域错误，其余原样返回
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrDuplicate
	}
	return err
}

// countBy 按外键分组计数：SELECT fk, COUNT(*) FROM model WHERE fk IN ids GROUP BY fk
func countBy(db *gorm.DB, model any, fk string, ids []string) (map[string]int64, error) {
	out := make(map[string]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		RefID string
		N     int64
	}
	err := db.Model(model).
		Select(fk+" AS ref_id, COUNT(*) AS n").
		Where(fk+" IN ?", ids).
		Group(fk).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.RefID] = r.N
	}
	return out, nil
}

func exists(db *gorm.DB, model any, id string) (bool, error) {
	var n int64
	if err := db.Model(model).Where("id = ?", id).Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
