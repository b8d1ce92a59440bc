package repository

import (
	"context"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/domain/model"
)

type FavoriteProductRepository interface {
	Repository[model.FavoriteProduct, int64]

	// 商品込みでユーザーのお気に入り一覧
	GetUserFavorites(ctx context.Context, userID string) ([]model.FavoriteProduct, error)
	IsFavorite(ctx context.Context, userID string, productID int64) (bool, error)

	AddFavorite(userID string, productID int64)
	RemoveFavorite(userID string, productID int64)
}
