package model

import (
	"math"
	"time"
)

// バスケットの明細
// 追加時点の商品名・サムネイル・価格をスナップショットとして保存する。
type BasketItem struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BasketID         int64     `gorm:"not null;index" json:"basket_id"`
	ProductID        int64     `gorm:"not null" json:"product_id"`
	ProductTitle     string    `gorm:"type:varchar(200);not null" json:"product_title"`
	ProductThumbnail string    `gorm:"type:text" json:"product_thumbnail"`
	Price            float64   `gorm:"type:decimal(18,2);not null" json:"price"`
	Quantity         int64     `gorm:"not null" json:"quantity"`
	AddedAt          time.Time `gorm:"not null" json:"added_at"`
}

func (i BasketItem) Subtotal() float64 {
	return roundCurrency(i.Price * float64(i.Quantity))
}

// decimal(18,2)に合わせて小数2桁に丸める
func roundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}
