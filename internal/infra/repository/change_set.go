package repository

import (
	"sync"

	"gorm.io/gorm"
)

// SaveChangesまで溜めておく書き込み1件分。影響行数を返す。
type pendingOp func(tx *gorm.DB) (int64, error)

type changeSet struct {
	mu  sync.Mutex
	ops []pendingOp
}

func (c *changeSet) enqueue(op pendingOp) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = append(c.ops, op)
}

// 溜めた変更を取り出して空にする
func (c *changeSet) drain() []pendingOp {
	c.mu.Lock()
	defer c.mu.Unlock()
	ops := c.ops
	c.ops = nil
	return ops
}

func (c *changeSet) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ops)
}
