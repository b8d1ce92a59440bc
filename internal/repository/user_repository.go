package repository

import (
	"context"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/domain/model"
)

type UserRepository interface {
	Repository[model.User, string]

	// 正規化済み(小文字)メールで1件取得。無ければ nil, nil
	FindByNormalizedEmail(ctx context.Context, normalizedEmail string) (*model.User, error)
}
