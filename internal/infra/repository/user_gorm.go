package repository

import (
	"context"
	"errors"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/domain/model"

	"gorm.io/gorm"
)

type UserGormRepository struct {
	gormRepository[model.User, string]
}

// DI
func NewUserGormRepository(db *gorm.DB, changes *changeSet) *UserGormRepository {
	return &UserGormRepository{gormRepository: newGormRepository[model.User, string](db, changes)}
}

// 正規化メールでユーザーを1件取得
func (r *UserGormRepository) FindByNormalizedEmail(ctx context.Context, normalizedEmail string) (*model.User, error) {
	var u model.User

	err := r.db.WithContext(ctx).
		Where("normalized_email = ?", normalizedEmail).
		First(&u).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
