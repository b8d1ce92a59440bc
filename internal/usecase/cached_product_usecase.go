package usecase

import (
	"context"
	"strconv"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/infra/cache"
)

const (
	cacheKeyAllProducts    = "products_all"
	cacheKeyProductPrefix  = "product"
	cacheKeySearchPrefix   = "products_search"
	cacheKeyCategoryPrefix = "products_category"
)

// 商品キャッシュの無効化（同期後に呼ぶ）
type ProductCacheInvalidator interface {
	ClearCache()
}

// CachedProductUsecase はProductServiceの結果をTTLの間メモ化する。
type CachedProductUsecase struct {
	inner ProductService
	store *cache.Store
}

var _ ProductService = (*CachedProductUsecase)(nil)
var _ ProductCacheInvalidator = (*CachedProductUsecase)(nil)

// DI
func NewCachedProductUsecase(inner ProductService, store *cache.Store) *CachedProductUsecase {
	return &CachedProductUsecase{inner: inner, store: store}
}

func (u *CachedProductUsecase) GetAll(ctx context.Context) ([]ProductDTO, error) {
	return cache.GetOrFetch(ctx, u.store, cacheKeyAllProducts, u.inner.GetAll)
}

func (u *CachedProductUsecase) GetByID(ctx context.Context, id int64) (*ProductDTO, error) {
	key := cache.Key(cacheKeyProductPrefix, strconv.FormatInt(id, 10))
	return cache.GetOrFetch(ctx, u.store, key, func(ctx context.Context) (*ProductDTO, error) {
		return u.inner.GetByID(ctx, id)
	})
}

func (u *CachedProductUsecase) Search(ctx context.Context, term string) ([]ProductDTO, error) {
	return cache.GetOrFetch(ctx, u.store, cache.Key(cacheKeySearchPrefix, term), func(ctx context.Context) ([]ProductDTO, error) {
		return u.inner.Search(ctx, term)
	})
}

func (u *CachedProductUsecase) ByCategory(ctx context.Context, category string) ([]ProductDTO, error) {
	return cache.GetOrFetch(ctx, u.store, cache.Key(cacheKeyCategoryPrefix, category), func(ctx context.Context) ([]ProductDTO, error) {
		return u.inner.ByCategory(ctx, category)
	})
}

// 全件一覧のキーだけ消す。ID・検索・カテゴリはTTLで自然に切れるのを待つ。
func (u *CachedProductUsecase) ClearCache() {
	u.store.Delete(cacheKeyAllProducts)
}

// キャッシュ無効時に使う
type NoopCacheInvalidator struct{}

func (NoopCacheInvalidator) ClearCache() {}
