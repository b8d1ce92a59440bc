package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/domain/model"
	repo "github.com/kockiy1/Abysalto-AP-Mid/internal/repository"
)

// 商品のレスポンス
type ProductDTO struct {
	ID                 int64    `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Rating             float64  `json:"rating"`
	Stock              int64    `json:"stock"`
	Brand              string   `json:"brand"`
	Category           string   `json:"category"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images"`
}

// ProductService は商品の読み取り。キャッシュ付き実装も同じ形にする。
type ProductService interface {
	GetAll(ctx context.Context) ([]ProductDTO, error)
	// 無ければ nil, nil
	GetByID(ctx context.Context, id int64) (*ProductDTO, error)
	// 空白だけなら全件
	Search(ctx context.Context, term string) ([]ProductDTO, error)
	// 空白だけなら全件
	ByCategory(ctx context.Context, category string) ([]ProductDTO, error)
}

type ProductUsecase struct {
	uow repo.UnitOfWorkFactory
}

// DI
func NewProductUsecase(uow repo.UnitOfWorkFactory) *ProductUsecase {
	return &ProductUsecase{uow: uow}
}

func (u *ProductUsecase) GetAll(ctx context.Context) ([]ProductDTO, error) {
	products, err := u.uow.New().Products().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return toProductDTOs(products), nil
}

func (u *ProductUsecase) GetByID(ctx context.Context, id int64) (*ProductDTO, error) {
	p, err := u.uow.New().Products().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	if p == nil {
		return nil, nil
	}
	dto := toProductDTO(*p)
	return &dto, nil
}

func (u *ProductUsecase) Search(ctx context.Context, term string) ([]ProductDTO, error) {
	if strings.TrimSpace(term) == "" {
		return u.GetAll(ctx)
	}

	products, err := u.uow.New().Products().Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return toProductDTOs(products), nil
}

func (u *ProductUsecase) ByCategory(ctx context.Context, category string) ([]ProductDTO, error) {
	if strings.TrimSpace(category) == "" {
		return u.GetAll(ctx)
	}

	products, err := u.uow.New().Products().GetByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}
	return toProductDTOs(products), nil
}

func toProductDTOs(products []model.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, toProductDTO(p))
	}
	return out
}

func toProductDTO(p model.Product) ProductDTO {
	return ProductDTO{
		ID:                 p.ID,
		Title:              p.Title,
		Description:        p.Description,
		Price:              p.Price,
		DiscountPercentage: p.DiscountPercentage,
		Rating:             p.Rating,
		Stock:              p.Stock,
		Brand:              p.Brand,
		Category:           p.Category,
		Thumbnail:          p.Thumbnail,
		Images:             parseImages(p.Images),
	}
}

// 保存してあるJSON配列を戻す。壊れていたら空
func parseImages(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	var images []string
	if err := json.Unmarshal([]byte(raw), &images); err != nil || images == nil {
		return []string{}
	}
	return images
}
