package repository

import (
	"context"
	"time"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/domain/model"

	"gorm.io/gorm"
)

type FavoriteProductGormRepository struct {
	gormRepository[model.FavoriteProduct, int64]
}

// DI
func NewFavoriteProductGormRepository(db *gorm.DB, changes *changeSet) *FavoriteProductGormRepository {
	return &FavoriteProductGormRepository{gormRepository: newGormRepository[model.FavoriteProduct, int64](db, changes)}
}

// 商品をPreloadしてお気に入り一覧
func (r *FavoriteProductGormRepository) GetUserFavorites(ctx context.Context, userID string) ([]model.FavoriteProduct, error) {
	var favorites []model.FavoriteProduct

	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("added_at asc").
		Order("id asc").
		Find(&favorites).Error
	if err != nil {
		return nil, err
	}
	return favorites, nil
}

func (r *FavoriteProductGormRepository) IsFavorite(ctx context.Context, userID string, productID int64) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.FavoriteProduct{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *FavoriteProductGormRepository) AddFavorite(userID string, productID int64) {
	fav := &model.FavoriteProduct{
		UserID:    userID,
		ProductID: productID,
		AddedAt:   time.Now().UTC(),
	}
	r.changes.enqueue(func(tx *gorm.DB) (int64, error) {
		res := tx.Omit("Product").Create(fav)
		return res.RowsAffected, res.Error
	})
}

func (r *FavoriteProductGormRepository) RemoveFavorite(userID string, productID int64) {
	r.changes.enqueue(func(tx *gorm.DB) (int64, error) {
		res := tx.Where("user_id = ? AND product_id = ?", userID, productID).
			Delete(&model.FavoriteProduct{})
		return res.RowsAffected, res.Error
	})
}
