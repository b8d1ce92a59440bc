package repository

import (
	"context"

	repo "github.com/kockiy1/Abysalto-AP-Mid/internal/repository"

	"gorm.io/gorm"
)

type unitOfWorkGorm struct {
	db      *gorm.DB
	changes *changeSet

	products  *ProductGormRepository
	baskets   *BasketGormRepository
	favorites *FavoriteProductGormRepository
	users     *UserGormRepository
}

func (u *unitOfWorkGorm) Products() repo.ProductRepository          { return u.products }
func (u *unitOfWorkGorm) Baskets() repo.BasketRepository            { return u.baskets }
func (u *unitOfWorkGorm) Favorites() repo.FavoriteProductRepository { return u.favorites }
func (u *unitOfWorkGorm) Users() repo.UserRepository                { return u.users }

// 溜めた変更を1トランザクションでまとめて実行
func (u *unitOfWorkGorm) SaveChanges(ctx context.Context) (int64, error) {
	ops := u.changes.drain()
	if len(ops) == 0 {
		return 0, nil
	}

	var affected int64
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range ops {
			n, err := op(tx)
			if err != nil {
				return err
			}
			affected += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

type UnitOfWorkFactoryGorm struct {
	db *gorm.DB
}

// DI
func NewUnitOfWorkFactoryGorm(db *gorm.DB) *UnitOfWorkFactoryGorm {
	return &UnitOfWorkFactoryGorm{db: db}
}

// リポジトリは同じchangeSetを共有する
func (f *UnitOfWorkFactoryGorm) New() repo.UnitOfWork {
	changes := &changeSet{}
	return &unitOfWorkGorm{
		db:        f.db,
		changes:   changes,
		products:  NewProductGormRepository(f.db, changes),
		baskets:   NewBasketGormRepository(f.db, changes),
		favorites: NewFavoriteProductGormRepository(f.db, changes),
		users:     NewUserGormRepository(f.db, changes),
	}
}
