package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/domain/model"
	repo "github.com/kockiy1/Abysalto-AP-Mid/internal/repository"
)

// BasketItemDTO は明細のレスポンス（価格は追加時点のスナップショット）
type BasketItemDTO struct {
	ID               int64   `json:"id"`
	ProductID        int64   `json:"productId"`
	ProductTitle     string  `json:"productTitle"`
	ProductThumbnail string  `json:"productThumbnail"`
	Price            float64 `json:"price"`
	Quantity         int64   `json:"quantity"`
	Subtotal         float64 `json:"subtotal"`
}

type BasketDTO struct {
	ID         int64           `json:"id"`
	Items      []BasketItemDTO `json:"items"`
	TotalPrice float64         `json:"totalPrice"`
	TotalItems int64           `json:"totalItems"`
}

// BasketUsecase は /api/basket の業務ロジック。
// 1回の操作ごとにUnitOfWorkを作り、変更はSaveChangesでまとめて確定する。
type BasketUsecase struct {
	uow repo.UnitOfWorkFactory
	now func() time.Time
}

// DI
func NewBasketUsecase(uow repo.UnitOfWorkFactory) *BasketUsecase {
	return &BasketUsecase{
		uow: uow,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Get はユーザーのバスケット。無ければ nil, nil
func (u *BasketUsecase) Get(ctx context.Context, userID string) (*BasketDTO, error) {
	return u.load(ctx, u.uow.New(), userID)
}

// Add は商品を追加する（同じ商品なら数量を加算）。
func (u *BasketUsecase) Add(ctx context.Context, userID string, productID int64, quantity int64) (*BasketDTO, error) {
	uow := u.uow.New()

	basket, err := uow.Baskets().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get basket: %w", err)
	}

	// 無ければ作ってIDを確定させる
	if basket == nil {
		uow.Baskets().Add(&model.Basket{
			UserID:    userID,
			CreatedAt: u.now(),
		})
		if _, err := uow.SaveChanges(ctx); err != nil {
			return nil, fmt.Errorf("create basket: %w", err)
		}

		basket, err = uow.Baskets().GetByUserID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("reload basket: %w", err)
		}
		if basket == nil {
			return nil, fmt.Errorf("reload basket: %w", repo.ErrNotFound)
		}
	}

	product, err := uow.Products().GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", productID, err)
	}
	if product == nil {
		return nil, NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Product with ID %d not found.", productID))
	}

	if existing := findItemByProduct(basket.Items, productID); existing != nil {
		uow.Baskets().UpdateItemQuantity(existing.ID, existing.Quantity+quantity)
	} else {
		uow.Baskets().AddItem(&model.BasketItem{
			BasketID:         basket.ID,
			ProductID:        product.ID,
			ProductTitle:     product.Title,
			ProductThumbnail: product.Thumbnail,
			Price:            product.Price,
			Quantity:         quantity,
			AddedAt:          u.now(),
		})
	}

	if err := u.touchAndSave(ctx, uow, basket); err != nil {
		return nil, err
	}
	return u.load(ctx, uow, userID)
}

// Remove は明細を1件削除する。
func (u *BasketUsecase) Remove(ctx context.Context, userID string, itemID int64) (*BasketDTO, error) {
	uow := u.uow.New()

	basket, err := u.ownedBasketWithItem(ctx, uow, userID, itemID)
	if err != nil {
		return nil, err
	}

	uow.Baskets().RemoveItem(itemID)

	if err := u.touchAndSave(ctx, uow, basket); err != nil {
		return nil, err
	}
	return u.load(ctx, uow, userID)
}

// UpdateQuantity は明細の数量を上書きする。
func (u *BasketUsecase) UpdateQuantity(ctx context.Context, userID string, itemID int64, quantity int64) (*BasketDTO, error) {
	if quantity <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "Quantity must be greater than 0.")
	}

	uow := u.uow.New()

	basket, err := u.ownedBasketWithItem(ctx, uow, userID, itemID)
	if err != nil {
		return nil, err
	}

	uow.Baskets().UpdateItemQuantity(itemID, quantity)

	if err := u.touchAndSave(ctx, uow, basket); err != nil {
		return nil, err
	}
	return u.load(ctx, uow, userID)
}

// Clear は明細を全部消す（バスケット自体は残す）。
func (u *BasketUsecase) Clear(ctx context.Context, userID string) error {
	uow := u.uow.New()

	basket, err := uow.Baskets().GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get basket: %w", err)
	}
	if basket == nil {
		return NewHTTPError(http.StatusBadRequest, "Basket not found.")
	}

	uow.Baskets().Clear(basket.ID)
	return u.touchAndSave(ctx, uow, basket)
}

// ユーザーのバスケットと、その中に明細があることを確認する
func (u *BasketUsecase) ownedBasketWithItem(ctx context.Context, uow repo.UnitOfWork, userID string, itemID int64) (*model.Basket, error) {
	basket, err := uow.Baskets().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get basket: %w", err)
	}
	if basket == nil {
		return nil, NewHTTPError(http.StatusBadRequest, "Basket not found.")
	}

	for _, it := range basket.Items {
		if it.ID == itemID {
			return basket, nil
		}
	}
	return nil, NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Item with ID %d not found in basket.", itemID))
}

// updated_atを更新してコミット
func (u *BasketUsecase) touchAndSave(ctx context.Context, uow repo.UnitOfWork, basket *model.Basket) error {
	now := u.now()
	basket.UpdatedAt = &now
	uow.Baskets().Update(basket)

	if _, err := uow.SaveChanges(ctx); err != nil {
		return fmt.Errorf("save basket: %w", err)
	}
	return nil
}

func (u *BasketUsecase) load(ctx context.Context, uow repo.UnitOfWork, userID string) (*BasketDTO, error) {
	basket, err := uow.Baskets().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get basket: %w", err)
	}
	if basket == nil {
		return nil, nil
	}
	dto := toBasketDTO(*basket)
	return &dto, nil
}

func findItemByProduct(items []model.BasketItem, productID int64) *model.BasketItem {
	for i := range items {
		if items[i].ProductID == productID {
			return &items[i]
		}
	}
	return nil
}

func toBasketDTO(b model.Basket) BasketDTO {
	items := make([]BasketItemDTO, 0, len(b.Items))
	for _, it := range b.Items {
		items = append(items, BasketItemDTO{
			ID:               it.ID,
			ProductID:        it.ProductID,
			ProductTitle:     it.ProductTitle,
			ProductThumbnail: it.ProductThumbnail,
			Price:            it.Price,
			Quantity:         it.Quantity,
			Subtotal:         it.Subtotal(),
		})
	}
	return BasketDTO{
		ID:         b.ID,
		Items:      items,
		TotalPrice: b.TotalPrice(),
		TotalItems: b.TotalItems(),
	}
}
