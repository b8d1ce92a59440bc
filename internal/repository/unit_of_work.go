package repository

import "context"

// リポジトリをまとめて、溜めた変更を1トランザクションで確定する。
type UnitOfWork interface {
	Products() ProductRepository
	Baskets() BasketRepository
	Favorites() FavoriteProductRepository
	Users() UserRepository

	// 溜めた変更を全部コミットし、影響行数を返す。
	// 失敗時はロールバックされ、溜めていた変更は捨てられる。
	SaveChanges(ctx context.Context) (int64, error)
}

// UnitOfWorkはリクエストごとに作る（goroutine間で共有しない）
type UnitOfWorkFactory interface {
	New() UnitOfWork
}
