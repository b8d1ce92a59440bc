package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/domain/model"
	repo "github.com/kockiy1/Abysalto-AP-Mid/internal/repository"

	"github.com/labstack/gommon/log"
)

// 外部カタログの商品1件
type CatalogProduct struct {
	ID                 int64
	Title              string
	Description        string
	Price              float64
	DiscountPercentage float64
	Rating             float64
	Stock              int64
	Brand              string
	Category           string
	Thumbnail          string
	Images             []string
}

// 外部カタログから商品を取ってくる約束
type CatalogClient interface {
	FetchProducts(ctx context.Context, limit int) ([]CatalogProduct, error)
}

type CatalogFailure int

const (
	CatalogFetchFailed CatalogFailure = iota + 1 // 通信・ステータス異常
	CatalogParseFailed                           // レスポンスが読めない
)

// CatalogClientが返すエラー。Kindで利用者向けメッセージを分ける。
type CatalogError struct {
	Kind CatalogFailure
	Err  error
}

func (e *CatalogError) Error() string { return e.Err.Error() }
func (e *CatalogError) Unwrap() error { return e.Err }

// 同期件数の記録先（metrics）
type SyncRecorder interface {
	ProductsSynced(n int)
}

// SyncUsecase は外部カタログ(DummyJSON)の商品を取り込む。
// 既にあるIDは更新しないでスキップする。
type SyncUsecase struct {
	uow         repo.UnitOfWorkFactory
	client      CatalogClient
	invalidator ProductCacheInvalidator
	recorder    SyncRecorder
	logger      *log.Logger
	now         func() time.Time
}

// DI
func NewSyncUsecase(
	uow repo.UnitOfWorkFactory,
	client CatalogClient,
	invalidator ProductCacheInvalidator,
	recorder SyncRecorder,
	logger *log.Logger,
) *SyncUsecase {
	if invalidator == nil {
		invalidator = NoopCacheInvalidator{}
	}
	return &SyncUsecase{
		uow:         uow,
		client:      client,
		invalidator: invalidator,
		recorder:    recorder,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Sync は最大limit件を取得し、新しく追加した件数を返す。
func (u *SyncUsecase) Sync(ctx context.Context, limit int) (int, error) {
	fetched, err := u.client.FetchProducts(ctx, limit)
	if err != nil {
		return 0, catalogHTTPError(err)
	}
	if len(fetched) == 0 {
		return 0, nil
	}

	uow := u.uow.New()

	ids := make([]int64, 0, len(fetched))
	for _, p := range fetched {
		ids = append(ids, p.ID)
	}
	existing, err := uow.Products().GetByIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("load existing products: %w", err)
	}

	seen := make(map[int64]struct{}, len(existing)+len(fetched))
	for _, p := range existing {
		seen[p.ID] = struct{}{}
	}

	now := u.now()
	synced := 0
	for _, p := range fetched {
		// DBにある or 同じレスポンス内で重複
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}

		product, err := toProductModel(p, now)
		if err != nil {
			return 0, err
		}
		uow.Products().Add(product)
		synced++
	}

	if _, err := uow.SaveChanges(ctx); err != nil {
		return 0, fmt.Errorf("save synced products: %w", err)
	}

	// 追加0件でも一覧キャッシュは捨てる
	u.invalidator.ClearCache()

	if u.recorder != nil {
		u.recorder.ProductsSynced(synced)
	}
	if u.logger != nil {
		u.logger.Infoj(log.JSON{
			"event":   "products_synced",
			"fetched": len(fetched),
			"synced":  synced,
			"limit":   limit,
		})
	}
	return synced, nil
}

func catalogHTTPError(err error) error {
	var ce *CatalogError
	if errors.As(err, &ce) && ce.Kind == CatalogParseFailed {
		return &HTTPError{
			Status:  http.StatusInternalServerError,
			Message: "Failed to parse DummyJSON API response: " + ce.Err.Error(),
		}
	}
	if ce != nil {
		err = ce.Err
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Message: "Failed to fetch products from DummyJSON API: " + err.Error(),
	}
}

func toProductModel(p CatalogProduct, now time.Time) (*model.Product, error) {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	raw, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("encode images of product %d: %w", p.ID, err)
	}

	return &model.Product{
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
		Images:             string(raw),
		CachedAt:           now,
	}, nil
}
