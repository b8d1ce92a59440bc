package db

import (
	"fmt"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/config"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	if debug {
		gcfg.Logger = logger.Default.LogMode(logger.Info)
	}

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	return gdb, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.Open(SQLiteDSN(cfg.SQLitePath)), nil
	case "postgres":
		// DATABASE_URL があれば最優先で使う
		if cfg.URL != "" {
			return postgres.Open(cfg.URL), nil
		}
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
		)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported db driver: %s", cfg.Driver)
	}
}

// SQLiteはFK制約（ON DELETE CASCADE）を明示的に有効にする
func SQLiteDSN(path string) string {
	return "file:" + path + "?_foreign_keys=on"
}

// 全テーブルをマイグレーション
func AutoMigrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Basket{},
		&model.BasketItem{},
		&model.FavoriteProduct{},
	)
}
