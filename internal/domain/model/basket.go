package model

import "time"

// 1ユーザーにつきバスケットは1つ（user_idはunique）
type Basket struct {
	ID        int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string       `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	Items     []BasketItem `gorm:"foreignKey:BasketID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt *time.Time   `gorm:"autoUpdateTime:false" json:"updated_at"`
}

// 合計金額 = Σ(price × quantity)
func (b Basket) TotalPrice() float64 {
	var total float64
	for _, it := range b.Items {
		total += it.Subtotal()
	}
	return roundCurrency(total)
}

// 合計点数 = Σquantity
func (b Basket) TotalItems() int64 {
	var n int64
	for _, it := range b.Items {
		n += it.Quantity
	}
	return n
}
