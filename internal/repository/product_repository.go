package repository

import (
	"context"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/domain/model"
)

// 商品の永続化（保存・取得）
type ProductRepository interface {
	Repository[model.Product, int64]

	// カテゴリ完全一致
	GetByCategory(ctx context.Context, category string) ([]model.Product, error)

	// title/descriptionの部分一致
	Search(ctx context.Context, term string) ([]model.Product, error)

	// 複数IDをまとめて取得（同期の重複チェック用）
	GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error)
}
