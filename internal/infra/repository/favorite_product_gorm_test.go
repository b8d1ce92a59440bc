package repository

import (
	"context"
	"testing"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/testsupport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteRepository_AddCheckListRemove(t *testing.T) {
	gdb := testsupport.NewDB(t)
	ctx := context.Background()
	testsupport.SeedUser(t, gdb, testUserID, "fav@example.com")
	testsupport.SeedProduct(t, gdb, 1, "Phone", 9.99, "smartphones")
	testsupport.SeedProduct(t, gdb, 2, "Laptop", 19.99, "laptops")

	uow := NewUnitOfWorkFactoryGorm(gdb).New()

	ok, err := uow.Favorites().IsFavorite(ctx, testUserID, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	uow.Favorites().AddFavorite(testUserID, 1)
	uow.Favorites().AddFavorite(testUserID, 2)
	_, err = uow.SaveChanges(ctx)
	require.NoError(t, err)

	ok, err = uow.Favorites().IsFavorite(ctx, testUserID, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := uow.Favorites().GetUserFavorites(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].Product)
	assert.Equal(t, "Phone", list[0].Product.Title)

	uow.Favorites().RemoveFavorite(testUserID, 1)
	_, err = uow.SaveChanges(ctx)
	require.NoError(t, err)

	list, err = uow.Favorites().GetUserFavorites(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].ProductID)
}

func TestFavoriteRepository_PairIsUnique(t *testing.T) {
	gdb := testsupport.NewDB(t)
	ctx := context.Background()
	testsupport.SeedUser(t, gdb, testUserID, "dup@example.com")
	testsupport.SeedProduct(t, gdb, 1, "Phone", 9.99, "smartphones")

	uow := NewUnitOfWorkFactoryGorm(gdb).New()
	uow.Favorites().AddFavorite(testUserID, 1)
	uow.Favorites().AddFavorite(testUserID, 1)

	_, err := uow.SaveChanges(ctx)
	assert.Error(t, err)
}

func TestUserRepository_FindByNormalizedEmail(t *testing.T) {
	gdb := testsupport.NewDB(t)
	ctx := context.Background()
	testsupport.SeedUser(t, gdb, testUserID, "Mixed@Example.com")

	uow := NewUnitOfWorkFactoryGorm(gdb).New()

	u, err := uow.Users().FindByNormalizedEmail(ctx, "mixed@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Mixed@Example.com", u.Email)

	none, err := uow.Users().FindByNormalizedEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, none)
}
