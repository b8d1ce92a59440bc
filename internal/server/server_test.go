package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/config"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/handler"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/infra/cache"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/infra/dummyjson"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/infra/jwtauth"
	infraRepo "github.com/kockiy1/Abysalto-AP-Mid/internal/infra/repository"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/logger"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/metrics"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/testsupport"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/usecase"
	auth "github.com/kockiy1/Abysalto-AP-Mid/internal/usecase/auth_usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const catalogPayload = `{
	"products": [
		{"id": 1, "title": "Essence Mascara Lash Princess", "description": "Popular mascara", "price": 9.99,
		 "discountPercentage": 7.17, "rating": 4.94, "stock": 5, "brand": "Essence", "category": "beauty",
		 "thumbnail": "https://cdn.dummyjson.com/1/thumbnail.png", "images": ["https://cdn.dummyjson.com/1/1.png"]},
		{"id": 2, "title": "Eyeshadow Palette with Mirror", "description": "Versatile palette", "price": 19.99,
		 "discountPercentage": 5.5, "rating": 3.28, "stock": 44, "brand": "Glamour Beauty", "category": "beauty",
		 "thumbnail": "https://cdn.dummyjson.com/2/thumbnail.png", "images": []}
	],
	"total": 194, "skip": 0, "limit": 2
}`

type uuidGen struct{}

func (uuidGen) NewID() string { return uuid.NewString() }

type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

// 本番と同じ組み立て（DBはSQLite、カタログはhttptest）
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	catalogSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(catalogPayload))
	}))
	t.Cleanup(catalogSrv.Close)

	jwtCfg := config.JWTConfig{
		Secret:   "0123456789abcdef0123456789abcdef",
		Issuer:   "AbySalto.Mid",
		Audience: "AbySalto.Mid.Client",
		TTL:      time.Hour,
	}

	gdb := testsupport.NewDB(t)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)

	m := metrics.New()
	uowFactory := infraRepo.NewUnitOfWorkFactoryGorm(gdb)

	store, err := cache.New(10*time.Minute, m)
	require.NoError(t, err)
	products := usecase.NewCachedProductUsecase(usecase.NewProductUsecase(uowFactory), store)

	catalog := dummyjson.NewClient(config.CatalogConfig{
		BaseURL: catalogSrv.URL, Timeout: 5 * time.Second, RatePerMinute: 6000,
	}, nil)
	syncUC := usecase.NewSyncUsecase(uowFactory, catalog, products, m, logger.Discard("sync"))

	issuer := jwtauth.NewIssuer(jwtCfg)
	clock := sysClock{}

	h := Handlers{
		Auth: handler.NewAuthHandler(
			auth.NewRegisterUserUsecase(uowFactory, auth.NewBcryptPasswordHasher(bcrypt.MinCost), issuer,
				auth.DefaultPasswordPolicy(), uuidGen{}, clock),
			auth.NewLoginUsecase(uowFactory, auth.NewBcryptPasswordVerifier(), issuer, auth.DefaultLockoutPolicy(), clock),
			auth.NewCurrentUserUsecase(uowFactory, issuer, clock),
		),
		Product:  handler.NewProductHandler(products, syncUC),
		Basket:   handler.NewBasketHandler(usecase.NewBasketUsecase(uowFactory)),
		Favorite: handler.NewFavoriteHandler(usecase.NewFavoriteUsecase(uowFactory)),
		Health:   handler.NewHealthHandler(sqlDB, m.Handler()),
	}
	return New(logger.Discard("api"), m, jwtauth.NewVerifier(jwtCfg), h)
}

func doJSON(t *testing.T, e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func registerAndLogin(t *testing.T, e *echo.Echo) string {
	t.Helper()

	rec := doJSON(t, e, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "ana@example.com", "password": "Secret1", "firstName": "Ana", "lastName": "Horvat",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, e, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "Secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[auth.AuthResponse](t, rec).Token
}

func TestAPI_AuthFlow(t *testing.T) {
	e := newTestServer(t)
	token := registerAndLogin(t, e)

	rec := doJSON(t, e, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[auth.AuthResponse](t, rec)
	assert.Equal(t, "ana@example.com", me.Email)
	assert.Equal(t, "Ana", me.FirstName)
	assert.NotEmpty(t, me.Token)

	// 重複登録
	rec = doJSON(t, e, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "ANA@example.com", "password": "Secret1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"User with this email already exists."}`, rec.Body.String())

	// 弱いパスワード
	rec = doJSON(t, e, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "weak@example.com", "password": "secret",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User registration failed: ")

	// 不明なメールとパスワード違いは同じ応答
	unknown := doJSON(t, e, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "Secret1",
	})
	wrong := doJSON(t, e, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "Wrong1",
	})
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, unknown.Code, wrong.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
	assert.JSONEq(t, `{"message":"Invalid email or password."}`, wrong.Body.String())

	rec = doJSON(t, e, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_SyncAndBrowseProducts(t *testing.T) {
	e := newTestServer(t)

	// 同期は認証が必要
	rec := doJSON(t, e, http.MethodPost, "/api/product/sync?limit=2", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := registerAndLogin(t, e)

	// 同期前に一覧をキャッシュさせておく
	rec = doJSON(t, e, http.MethodGet, "/api/product", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]usecase.ProductDTO](t, rec))

	rec = doJSON(t, e, http.MethodPost, "/api/product/sync?limit=2", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"Successfully synced 2 products from DummyJSON API.","syncedCount":2}`, rec.Body.String())

	// 2回目は全部既存
	rec = doJSON(t, e, http.MethodPost, "/api/product/sync", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Successfully synced 0 products from DummyJSON API.","syncedCount":0}`, rec.Body.String())

	// 一覧キャッシュは同期で捨てられている
	rec = doJSON(t, e, http.MethodGet, "/api/product", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]usecase.ProductDTO](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, []string{"https://cdn.dummyjson.com/1/1.png"}, list[0].Images)
	assert.Equal(t, []string{}, list[1].Images)

	rec = doJSON(t, e, http.MethodGet, "/api/product/2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Eyeshadow Palette with Mirror", decode[usecase.ProductDTO](t, rec).Title)

	rec = doJSON(t, e, http.MethodGet, "/api/product/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Product with ID 999 not found."}`, rec.Body.String())

	rec = doJSON(t, e, http.MethodGet, "/api/product/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/api/product/search?term=MASCARA", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]usecase.ProductDTO](t, rec), 1)

	rec = doJSON(t, e, http.MethodGet, "/api/product/search", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]usecase.ProductDTO](t, rec), 2)

	rec = doJSON(t, e, http.MethodGet, "/api/product/category/beauty", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]usecase.ProductDTO](t, rec), 2)

	rec = doJSON(t, e, http.MethodPost, "/api/product/sync?limit=-1", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_BasketFlow(t *testing.T) {
	e := newTestServer(t)
	token := registerAndLogin(t, e)
	require.Equal(t, http.StatusOK, doJSON(t, e, http.MethodPost, "/api/product/sync?limit=2", token, nil).Code)

	rec := doJSON(t, e, http.MethodGet, "/api/basket", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Basket not found."}`, rec.Body.String())

	rec = doJSON(t, e, http.MethodPost, "/api/basket/items", token, map[string]int{"productId": 1, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	b := decode[usecase.BasketDTO](t, rec)
	require.Len(t, b.Items, 1)
	assert.Equal(t, 19.98, b.TotalPrice)
	assert.Equal(t, int64(2), b.TotalItems)
	itemID := b.Items[0].ID

	// quantity省略は1
	rec = doJSON(t, e, http.MethodPost, "/api/basket/items", token, map[string]int{"productId": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), decode[usecase.BasketDTO](t, rec).TotalItems)

	rec = doJSON(t, e, http.MethodPost, "/api/basket/items", token, map[string]int{"productId": 1, "quantity": 101})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/basket/items", token, map[string]int{"productId": 42, "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Product with ID 42 not found."}`, rec.Body.String())

	rec = doJSON(t, e, http.MethodPut, "/api/basket/items/"+itoa(itemID), token, 1)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 29.98, decode[usecase.BasketDTO](t, rec).TotalPrice)

	rec = doJSON(t, e, http.MethodPut, "/api/basket/items/"+itoa(itemID), token, 0)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Quantity must be greater than 0."}`, rec.Body.String())

	rec = doJSON(t, e, http.MethodDelete, "/api/basket/items/"+itoa(itemID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 19.99, decode[usecase.BasketDTO](t, rec).TotalPrice)

	rec = doJSON(t, e, http.MethodDelete, "/api/basket/items/"+itoa(itemID), token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, e, http.MethodDelete, "/api/basket", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/api/basket", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[usecase.BasketDTO](t, rec).Items)
}

func TestAPI_FavoritesFlow(t *testing.T) {
	e := newTestServer(t)
	token := registerAndLogin(t, e)
	require.Equal(t, http.StatusOK, doJSON(t, e, http.MethodPost, "/api/product/sync?limit=2", token, nil).Code)

	rec := doJSON(t, e, http.MethodGet, "/api/favorite/1/check", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "false", string(bytes.TrimSpace(rec.Body.Bytes())))

	assert.Equal(t, http.StatusNoContent, doJSON(t, e, http.MethodPost, "/api/favorite/1", token, nil).Code)
	assert.Equal(t, http.StatusNoContent, doJSON(t, e, http.MethodPost, "/api/favorite/1", token, nil).Code)

	rec = doJSON(t, e, http.MethodGet, "/api/favorite", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	favs := decode[[]usecase.FavoriteProductDTO](t, rec)
	require.Len(t, favs, 1)
	assert.Equal(t, "Essence Mascara Lash Princess", favs[0].ProductTitle)
	assert.Equal(t, 9.99, favs[0].ProductPrice)

	rec = doJSON(t, e, http.MethodPost, "/api/favorite/77", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusNoContent, doJSON(t, e, http.MethodDelete, "/api/favorite/1", token, nil).Code)

	rec = doJSON(t, e, http.MethodDelete, "/api/favorite/1", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Product with ID 1 is not in favorites."}`, rec.Body.String())

	rec = doJSON(t, e, http.MethodGet, "/api/favorite", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_HealthAndMetrics(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	_ = doJSON(t, e, http.MethodGet, "/api/product", "", nil)
	_ = doJSON(t, e, http.MethodGet, "/api/product", "", nil)

	rec = doJSON(t, e, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{endpoint="/api/product",method="GET",status="2xx"} 2`)
	assert.Contains(t, body, `product_cache_requests_total{result="hit"} 1`)
	assert.Contains(t, body, `product_cache_requests_total{result="miss"} 1`)
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Start(ctx, e, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
