// Package testsupport はテスト用のDBとデータ作成ヘルパ。
package testsupport

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/domain/model"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/infra/db"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB はテストごとに独立したインメモリSQLiteを作ってマイグレーションする。
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, dbSeq.Add(1))

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// 接続が全部閉じるとメモリDBが消えるので1本に固定
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(gdb))
	return gdb
}

// SeedProduct は商品を1件入れる
func SeedProduct(t *testing.T, gdb *gorm.DB, id int64, title string, price float64, category string) model.Product {
	t.Helper()

	p := model.Product{
		ID:          id,
		Title:       title,
		Description: title + " description",
		Price:       price,
		Category:    category,
		Thumbnail:   fmt.Sprintf("https://cdn.example.com/%d/thumb.png", id),
		Images:      `["https://cdn.example.com/1.png"]`,
		CachedAt:    time.Now().UTC(),
	}
	require.NoError(t, gdb.Create(&p).Error)
	return p
}

// SeedUser はユーザーを1件入れる（パスワードハッシュはダミー）
func SeedUser(t *testing.T, gdb *gorm.DB, id string, email string) model.User {
	t.Helper()

	now := time.Now().UTC()
	u := model.User{
		ID:              id,
		Email:           email,
		NormalizedEmail: strings.ToLower(email),
		PasswordHash:    "not-a-real-hash",
		FirstName:       "Test",
		LastName:        "User",
		LockoutEnabled:  true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}
