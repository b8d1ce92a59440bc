// Package cache は商品読み取り用のメモ化キャッシュ（sturdyc）。
package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/viccon/sturdyc"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	defaultCapacity           = 10000
	defaultShards             = 16
	defaultEvictionPercentage = 10
)

// 値の取得元
type FetchFn[T any] func(ctx context.Context) (T, error)

// ヒット/ミスを数えたいときに渡す。
// Coalescedは同じキーの取得中に来て、その結果を待って受け取った呼び出し。
type Observer interface {
	Hit(key string)
	Miss(key string)
	Coalesced(key string)
}

// 絶対時間(TTL)で失効するキー/値ストア。sturdycがシャード単位でロックするので並行アクセス可。
type Store struct {
	client   *sturdyc.Client[any]
	ttl      time.Duration
	observer Observer
}

func New(ttl time.Duration, observer Observer) (*Store, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive: %s", ttl)
	}
	client := sturdyc.New[any](defaultCapacity, defaultShards, ttl, defaultEvictionPercentage)
	return &Store{client: client, ttl: ttl, observer: observer}, nil
}

func (s *Store) TTL() time.Duration { return s.ttl }

func (s *Store) Delete(key string) {
	s.client.Delete(key)
}

// キーが有効期限内で残っているか
func (s *Store) Has(key string) bool {
	_, ok := s.client.Get(key)
	return ok
}

// GetOrFetch はキーがあればそれを返し、無ければfetchの結果を保存して返す。
// fetchがエラーなら保存しない。
func GetOrFetch[T any](ctx context.Context, s *Store, key string, fetch FetchFn[T]) (T, error) {
	if v, ok := s.client.Get(key); ok {
		if s.observer != nil {
			s.observer.Hit(key)
		}
		return cast[T](key, v)
	}

	// 同じキーの取得中ならsturdycがまとめるので、fetchを実行したかで分ける
	var fetched atomic.Bool
	v, err := s.client.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		fetched.Store(true)
		return fetch(ctx)
	})
	if s.observer != nil {
		if fetched.Load() {
			s.observer.Miss(key)
		} else {
			s.observer.Coalesced(key)
		}
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return cast[T](key, v)
}

func cast[T any](key string, v any) (T, error) {
	out, ok := v.(T)
	if !ok && v != nil {
		var zero T
		return zero, fmt.Errorf("cache: unexpected type %T for key %s", v, key)
	}
	return out, nil
}

// Key はプレフィックスと引数(小文字化)からキーを作る。例: products_search_phone
// cases.Caserはgoroutine間で共有できないので毎回作る。
func Key(prefix string, arg string) string {
	return prefix + "_" + cases.Lower(language.Und).String(arg)
}
