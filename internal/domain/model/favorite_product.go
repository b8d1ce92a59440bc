package model

import "time"

// ユーザーとお気に入り商品の中間テーブル。
// (user_id, product_id) の組は1件だけ。
type FavoriteProduct struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_user_product" json:"user_id"`
	ProductID int64     `gorm:"not null;uniqueIndex:idx_favorite_user_product" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	AddedAt   time.Time `gorm:"not null" json:"added_at"`
}
