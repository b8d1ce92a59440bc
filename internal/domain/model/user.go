package model

import "time"

type User struct {
	ID              string `gorm:"type:varchar(36);primaryKey"`
	Email           string `gorm:"type:varchar(256);uniqueIndex;not null"`
	NormalizedEmail string `gorm:"type:varchar(256);uniqueIndex;not null"`
	PasswordHash    string `gorm:"column:password_hash;not null"`
	FirstName       string `gorm:"type:varchar(100)"`
	LastName        string `gorm:"type:varchar(100)"`

	// ロックアウト（5回失敗で5分）
	AccessFailedCount int  `gorm:"not null;default:0"`
	LockoutEnabled    bool `gorm:"not null;default:true"`
	LockoutEnd        *time.Time

	// ユーザー削除時はバスケットとお気に入りも消える
	Basket    *Basket           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Favorites []FavoriteProduct `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// 現在ロックアウト中か
func (u *User) IsLockedOut(now time.Time) bool {
	return u.LockoutEnabled && u.LockoutEnd != nil && u.LockoutEnd.After(now)
}
