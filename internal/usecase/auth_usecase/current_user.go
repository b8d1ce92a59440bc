package auth

import (
	"context"
	"fmt"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/repository"
)

// CurrentUserUsecase はトークンのユーザーを引き直して新しいトークンを返す。
type CurrentUserUsecase struct {
	uow    repository.UnitOfWorkFactory
	issuer AccessTokenIssuer
	clock  Clock
}

func NewCurrentUserUsecase(uow repository.UnitOfWorkFactory, issuer AccessTokenIssuer, clock Clock) *CurrentUserUsecase {
	return &CurrentUserUsecase{uow: uow, issuer: issuer, clock: clock}
}

// ユーザーが消えていれば nil, nil
func (u *CurrentUserUsecase) Execute(ctx context.Context, userID string) (*AuthResponse, error) {
	user, err := u.uow.New().Users().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	token, err := u.issuer.Issue(user, u.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	out := newAuthResponse(user, token)
	return &out, nil
}
