package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/domain/model"
	repo "github.com/kockiy1/Abysalto-AP-Mid/internal/repository"
)

type FavoriteProductDTO struct {
	ID               int64     `json:"id"`
	ProductID        int64     `json:"productId"`
	ProductTitle     string    `json:"productTitle"`
	ProductThumbnail string    `json:"productThumbnail"`
	ProductPrice     float64   `json:"productPrice"`
	AddedAt          time.Time `json:"addedAt"`
}

// FavoriteUsecase は /api/favorite の業務ロジック。
type FavoriteUsecase struct {
	uow repo.UnitOfWorkFactory
}

// DI
func NewFavoriteUsecase(uow repo.UnitOfWorkFactory) *FavoriteUsecase {
	return &FavoriteUsecase{uow: uow}
}

func (u *FavoriteUsecase) List(ctx context.Context, userID string) ([]FavoriteProductDTO, error) {
	favorites, err := u.uow.New().Favorites().GetUserFavorites(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	out := make([]FavoriteProductDTO, 0, len(favorites))
	for _, f := range favorites {
		out = append(out, toFavoriteDTO(f))
	}
	return out, nil
}

func (u *FavoriteUsecase) IsFavorite(ctx context.Context, userID string, productID int64) (bool, error) {
	ok, err := u.uow.New().Favorites().IsFavorite(ctx, userID, productID)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return ok, nil
}

// Add はお気に入りに追加する。登録済みなら何もしないで成功。
func (u *FavoriteUsecase) Add(ctx context.Context, userID string, productID int64) error {
	uow := u.uow.New()

	product, err := uow.Products().GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("get product %d: %w", productID, err)
	}
	if product == nil {
		return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Product with ID %d not found.", productID))
	}

	exists, err := uow.Favorites().IsFavorite(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("check favorite: %w", err)
	}
	if exists {
		return nil
	}

	uow.Favorites().AddFavorite(userID, productID)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return fmt.Errorf("save favorite: %w", err)
	}
	return nil
}

func (u *FavoriteUsecase) Remove(ctx context.Context, userID string, productID int64) error {
	uow := u.uow.New()

	exists, err := uow.Favorites().IsFavorite(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("check favorite: %w", err)
	}
	if !exists {
		return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Product with ID %d is not in favorites.", productID))
	}

	uow.Favorites().RemoveFavorite(userID, productID)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

func toFavoriteDTO(f model.FavoriteProduct) FavoriteProductDTO {
	dto := FavoriteProductDTO{
		ID:        f.ID,
		ProductID: f.ProductID,
		AddedAt:   f.AddedAt,
	}
	if f.Product != nil {
		dto.ProductTitle = f.Product.Title
		dto.ProductThumbnail = f.Product.Thumbnail
		dto.ProductPrice = f.Product.Price
	}
	return dto
}
