package model

import "time"

// 外部カタログ(DummyJSON)から同期した商品。
// IDは外部側のIDをそのまま使うので自動採番しない。
type Product struct {
	ID                 int64      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Title              string     `gorm:"type:varchar(200);not null" json:"title"`
	Description        string     `gorm:"type:varchar(1000)" json:"description"`
	Price              float64    `gorm:"type:decimal(18,2);not null" json:"price"`
	DiscountPercentage float64    `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percentage"`
	Rating             float64    `gorm:"not null;default:0" json:"rating"`
	Stock              int64      `gorm:"not null;default:0" json:"stock"`
	Brand              string     `gorm:"type:varchar(100)" json:"brand"`
	Category           string     `gorm:"type:varchar(100);index" json:"category"`
	Thumbnail          string     `gorm:"type:text" json:"thumbnail"`
	Images             string     `gorm:"type:text" json:"images"` // JSON配列の文字列
	CachedAt           time.Time  `gorm:"not null" json:"cached_at"`
	LastUpdated        *time.Time `json:"last_updated"`
}
