package repository

import (
	"context"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/domain/model"
)

type BasketRepository interface {
	Repository[model.Basket, int64]

	// 明細込みで取得。無ければ nil, nil
	GetByUserID(ctx context.Context, userID string) (*model.Basket, error)

	AddItem(item *model.BasketItem)
	UpdateItemQuantity(itemID int64, quantity int64)
	RemoveItem(itemID int64)
	Clear(basketID int64)
}
