package repository

import (
	"context"
	"errors"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/domain/model"

	"gorm.io/gorm"
)

type BasketGormRepository struct {
	gormRepository[model.Basket, int64]
}

// DI
func NewBasketGormRepository(db *gorm.DB, changes *changeSet) *BasketGormRepository {
	return &BasketGormRepository{gormRepository: newGormRepository[model.Basket, int64](db, changes)}
}

// ユーザーのバスケットを明細込みで取得
func (r *BasketGormRepository) GetByUserID(ctx context.Context, userID string) (*model.Basket, error) {
	var basket model.Basket

	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		Where("user_id = ?", userID).
		First(&basket).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &basket, nil
}

// 明細を追加
func (r *BasketGormRepository) AddItem(item *model.BasketItem) {
	r.changes.enqueue(func(tx *gorm.DB) (int64, error) {
		res := tx.Create(item)
		return res.RowsAffected, res.Error
	})
}

// 明細の数量を上書き
func (r *BasketGormRepository) UpdateItemQuantity(itemID int64, quantity int64) {
	r.changes.enqueue(func(tx *gorm.DB) (int64, error) {
		res := tx.Model(&model.BasketItem{}).
			Where("id = ?", itemID).
			Update("quantity", quantity)
		return res.RowsAffected, res.Error
	})
}

// 明細を削除
func (r *BasketGormRepository) RemoveItem(itemID int64) {
	r.changes.enqueue(func(tx *gorm.DB) (int64, error) {
		res := tx.Where("id = ?", itemID).Delete(&model.BasketItem{})
		return res.RowsAffected, res.Error
	})
}

// 指定バスケットの明細を全削除
func (r *BasketGormRepository) Clear(basketID int64) {
	r.changes.enqueue(func(tx *gorm.DB) (int64, error) {
		res := tx.Where("basket_id = ?", basketID).Delete(&model.BasketItem{})
		return res.RowsAffected, res.Error
	})
}
