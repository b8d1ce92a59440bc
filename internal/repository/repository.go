package repository

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// エンティティごとのCRUD窓口。
// 読み取りはすぐDBへ、追加・更新・削除はUnitOfWork.SaveChangesまで溜めておく。
type Repository[T any, K comparable] interface {
	// 見つからなければ nil, nil
	GetByID(ctx context.Context, id K) (*T, error)
	GetAll(ctx context.Context) ([]T, error)

	Add(entity *T)
	Update(entity *T)
	Delete(entity *T)
	DeleteByID(id K)
}
