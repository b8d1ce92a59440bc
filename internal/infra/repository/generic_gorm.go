package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 全エンティティ共通のCRUD
type gormRepository[T any, K comparable] struct {
	db      *gorm.DB
	changes *changeSet
}

func newGormRepository[T any, K comparable](db *gorm.DB, changes *changeSet) gormRepository[T, K] {
	return gormRepository[T, K]{db: db, changes: changes}
}

// IDで1件取得。無ければ nil, nil
func (r *gormRepository[T, K]) GetByID(ctx context.Context, id K) (*T, error) {
	var e T
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *gormRepository[T, K]) GetAll(ctx context.Context) ([]T, error) {
	var list []T
	if err := r.db.WithContext(ctx).Order("id asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// コミット時にINSERT。IDはentityに書き戻される
func (r *gormRepository[T, K]) Add(entity *T) {
	r.changes.enqueue(func(tx *gorm.DB) (int64, error) {
		res := tx.Omit(clause.Associations).Create(entity)
		return res.RowsAffected, res.Error
	})
}

func (r *gormRepository[T, K]) Update(entity *T) {
	r.changes.enqueue(func(tx *gorm.DB) (int64, error) {
		res := tx.Omit(clause.Associations).Save(entity)
		return res.RowsAffected, res.Error
	})
}

func (r *gormRepository[T, K]) Delete(entity *T) {
	r.changes.enqueue(func(tx *gorm.DB) (int64, error) {
		// 子テーブルはFKのON DELETE CASCADEで消える
		res := tx.Delete(entity)
		return res.RowsAffected, res.Error
	})
}

func (r *gormRepository[T, K]) DeleteByID(id K) {
	r.changes.enqueue(func(tx *gorm.DB) (int64, error) {
		res := tx.Where("id = ?", id).Delete(new(T))
		return res.RowsAffected, res.Error
	})
}
