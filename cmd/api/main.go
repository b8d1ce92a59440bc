package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/config"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/handler"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/infra/cache"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/infra/db"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/infra/dummyjson"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/infra/jwtauth"
	infraRepo "github.com/kockiy1/Abysalto-AP-Mid/internal/infra/repository"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/logger"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/metrics"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/server"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/usecase"
	auth "github.com/kockiy1/Abysalto-AP-Mid/internal/usecase/auth_usecase"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now().UTC()
}

func main() {
	//設定
	cfg, err := config.Load()
	if err != nil {
		log.Fatalj(log.JSON{"event": "config_error", "error": err.Error()})
	}
	appLog := logger.New("api", cfg.LogLevel)

	//DB接続
	gormDB, err := db.Connect(cfg.Database, cfg.LogLevel == "debug")
	if err != nil {
		appLog.Fatalj(log.JSON{"event": "db_connect_error", "error": err.Error()})
	}
	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(gormDB); err != nil {
			appLog.Fatalj(log.JSON{"event": "db_migrate_error", "error": err.Error()})
		}
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		appLog.Fatalj(log.JSON{"event": "db_handle_error", "error": err.Error()})
	}
	defer sqlDB.Close()

	m := metrics.New()

	//UnitOfWork（リクエストごとに作る）
	uowFactory := infraRepo.NewUnitOfWorkFactoryGorm(gormDB)

	//商品（キャッシュ有効ならデコレータで包む）
	var products usecase.ProductService = usecase.NewProductUsecase(uowFactory)
	var invalidator usecase.ProductCacheInvalidator = usecase.NoopCacheInvalidator{}
	if cfg.Cache.Enabled {
		store, err := cache.New(cfg.Cache.TTL, m)
		if err != nil {
			appLog.Fatalj(log.JSON{"event": "cache_error", "error": err.Error()})
		}
		cached := usecase.NewCachedProductUsecase(products, store)
		products = cached
		invalidator = cached
	}

	//外部カタログ同期
	catalog := dummyjson.NewClient(cfg.Catalog, nil)
	syncUC := usecase.NewSyncUsecase(uowFactory, catalog, invalidator, m, logger.New("sync", cfg.LogLevel))

	basketUC := usecase.NewBasketUsecase(uowFactory)
	favoriteUC := usecase.NewFavoriteUsecase(uowFactory)

	//認証
	idGen := &uuidGenerator{}
	clock := &realClock{}
	issuer := jwtauth.NewIssuer(cfg.JWT)
	verifier := jwtauth.NewVerifier(cfg.JWT)
	hasher := auth.NewBcryptPasswordHasher(auth.PasswordHashCost)
	passwordVerifier := auth.NewBcryptPasswordVerifier()

	registerUC := auth.NewRegisterUserUsecase(uowFactory, hasher, issuer, auth.DefaultPasswordPolicy(), idGen, clock)
	loginUC := auth.NewLoginUsecase(uowFactory, passwordVerifier, issuer, auth.DefaultLockoutPolicy(), clock)
	currentUC := auth.NewCurrentUserUsecase(uowFactory, issuer, clock)

	//Handler生成
	handlers := server.Handlers{
		Auth:     handler.NewAuthHandler(registerUC, loginUC, currentUC),
		Product:  handler.NewProductHandler(products, syncUC),
		Basket:   handler.NewBasketHandler(basketUC),
		Favorite: handler.NewFavoriteHandler(favoriteUC),
		Health:   handler.NewHealthHandler(sqlDB, m.Handler()),
	}

	e := server.New(appLog, m, verifier, handlers)

	//SIGINT/SIGTERMで止める
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLog.Infoj(log.JSON{
		"event":     "server_start",
		"addr":      cfg.Addr(),
		"db_driver": cfg.Database.Driver,
		"cache":     cfg.Cache.Enabled,
	})
	if err := server.Start(ctx, e, cfg.Addr()); err != nil {
		appLog.Errorj(log.JSON{"event": "server_error", "error": err.Error()})
		return
	}
	appLog.Infoj(log.JSON{"event": "server_stopped"})
}
