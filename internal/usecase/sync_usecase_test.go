package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/domain/model"
	infraRepo "github.com/kockiy1/Abysalto-AP-Mid/internal/infra/repository"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/testsupport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// =====================
// Mocks
// =====================

type SyncCatalogClientMock struct{ mock.Mock }

func (m *SyncCatalogClientMock) FetchProducts(ctx context.Context, limit int) ([]CatalogProduct, error) {
	args := m.Called(ctx, limit)
	items, _ := args.Get(0).([]CatalogProduct)
	return items, args.Error(1)
}

type SyncInvalidatorMock struct{ mock.Mock }

func (m *SyncInvalidatorMock) ClearCache() { m.Called() }

type SyncRecorderMock struct{ mock.Mock }

func (m *SyncRecorderMock) ProductsSynced(n int) { m.Called(n) }

func newSyncFixture(t *testing.T) (*gorm.DB, *SyncCatalogClientMock, *SyncInvalidatorMock, *SyncRecorderMock, *SyncUsecase) {
	t.Helper()
	gdb := testsupport.NewDB(t)
	client := new(SyncCatalogClientMock)
	inv := new(SyncInvalidatorMock)
	rec := new(SyncRecorderMock)
	uc := NewSyncUsecase(infraRepo.NewUnitOfWorkFactoryGorm(gdb), client, inv, rec, nil)
	return gdb, client, inv, rec, uc
}

func TestSync_SkipsExistingAndDuplicateIDs(t *testing.T) {
	gdb, client, inv, rec, uc := newSyncFixture(t)
	ctx := context.Background()
	testsupport.SeedProduct(t, gdb, 1, "Old title", 1, "beauty")

	client.On("FetchProducts", mock.Anything, 100).Return([]CatalogProduct{
		{ID: 1, Title: "Changed title", Price: 9.99},
		{ID: 2, Title: "Eyeshadow", Price: 19.99, Category: "beauty", Images: []string{"a.png"}},
		{ID: 2, Title: "Eyeshadow again", Price: 19.99},
	}, nil).Once()
	inv.On("ClearCache").Once()
	rec.On("ProductsSynced", 1).Once()

	n, err := uc.Sync(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// 既存は更新しない
	var p1 model.Product
	require.NoError(t, gdb.First(&p1, 1).Error)
	assert.Equal(t, "Old title", p1.Title)

	var p2 model.Product
	require.NoError(t, gdb.First(&p2, 2).Error)
	assert.Equal(t, "Eyeshadow", p2.Title)
	assert.Equal(t, `["a.png"]`, p2.Images)
	assert.False(t, p2.CachedAt.IsZero())

	client.AssertExpectations(t)
	inv.AssertExpectations(t)
	rec.AssertExpectations(t)
}

func TestSync_NothingNewStillInvalidates(t *testing.T) {
	gdb, client, inv, rec, uc := newSyncFixture(t)
	testsupport.SeedProduct(t, gdb, 1, "A", 1, "x")

	client.On("FetchProducts", mock.Anything, 10).Return([]CatalogProduct{{ID: 1, Title: "A"}}, nil).Once()
	inv.On("ClearCache").Once()
	rec.On("ProductsSynced", 0).Once()

	n, err := uc.Sync(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	inv.AssertExpectations(t)
}

func TestSync_EmptyPayloadReturnsZero(t *testing.T) {
	_, client, inv, rec, uc := newSyncFixture(t)

	client.On("FetchProducts", mock.Anything, 5).Return([]CatalogProduct{}, nil).Once()

	n, err := uc.Sync(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	inv.AssertNotCalled(t, "ClearCache")
	rec.AssertNotCalled(t, "ProductsSynced", mock.Anything)
}

func TestSync_CatalogFailuresAreWrapped(t *testing.T) {
	_, client, inv, _, uc := newSyncFixture(t)

	client.On("FetchProducts", mock.Anything, 1).
		Return(nil, &CatalogError{Kind: CatalogFetchFailed, Err: errors.New("connection refused")}).Once()
	client.On("FetchProducts", mock.Anything, 2).
		Return(nil, &CatalogError{Kind: CatalogParseFailed, Err: errors.New("unexpected EOF")}).Once()
	client.On("FetchProducts", mock.Anything, 3).
		Return(nil, context.DeadlineExceeded).Once()

	_, err := uc.Sync(context.Background(), 1)
	assertHTTPError(t, err, http.StatusInternalServerError, "Failed to fetch products from DummyJSON API: connection refused")

	_, err = uc.Sync(context.Background(), 2)
	assertHTTPError(t, err, http.StatusInternalServerError, "Failed to parse DummyJSON API response: unexpected EOF")

	_, err = uc.Sync(context.Background(), 3)
	assertHTTPError(t, err, http.StatusInternalServerError, "Failed to fetch products from DummyJSON API: context deadline exceeded")

	inv.AssertNotCalled(t, "ClearCache")
}

func TestSync_NilInvalidatorFallsBackToNoop(t *testing.T) {
	gdb := testsupport.NewDB(t)
	client := new(SyncCatalogClientMock)
	client.On("FetchProducts", mock.Anything, 1).Return([]CatalogProduct{{ID: 9, Title: "X"}}, nil).Once()

	uc := NewSyncUsecase(infraRepo.NewUnitOfWorkFactoryGorm(gdb), client, nil, nil, nil)
	n, err := uc.Sync(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
