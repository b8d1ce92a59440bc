package repository

import (
	"context"
	"strings"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/domain/model"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	gormRepository[model.Product, int64]
}

// DI
func NewProductGormRepository(db *gorm.DB, changes *changeSet) *ProductGormRepository {
	return &ProductGormRepository{gormRepository: newGormRepository[model.Product, int64](db, changes)}
}

// カテゴリで絞り込み（大文字小文字は区別しない）
func (r *ProductGormRepository) GetByCategory(ctx context.Context, category string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("LOWER(category) = LOWER(?)", category).
		Order("id asc").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// title/descriptionに部分一致する商品（大文字小文字は区別しない）
// postgresのLIKEは区別するのでLOWER同士で比べる
func (r *ProductGormRepository) Search(ctx context.Context, term string) ([]model.Product, error) {
	var products []model.Product

	like := "%" + escapeLike(strings.ToLower(term)) + "%"
	err := r.db.WithContext(ctx).
		Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, like, like).
		Order("id asc").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// IDをまとめて取得
func (r *ProductGormRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	var products []model.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// LIKEのワイルドカードをエスケープ
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
