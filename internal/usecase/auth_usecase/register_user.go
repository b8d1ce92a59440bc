package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/domain/model"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/repository"
)

// 会員登録の入力
type RegisterUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	uow    repository.UnitOfWorkFactory
	hasher PasswordHasher
	issuer AccessTokenIssuer
	policy PasswordPolicy
	idGen  IDGenerator
	clock  Clock
}

// DI
func NewRegisterUserUsecase(
	uow repository.UnitOfWorkFactory,
	hasher PasswordHasher,
	issuer AccessTokenIssuer,
	policy PasswordPolicy,
	idGen IDGenerator,
	clock Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		uow:    uow,
		hasher: hasher,
		issuer: issuer,
		policy: policy,
		idGen:  idGen,
		clock:  clock,
	}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (AuthResponse, error) {
	var out AuthResponse

	uow := u.uow.New()
	email := strings.TrimSpace(in.Email)
	normalized := NormalizeEmail(email)

	// email重複チェック
	existing, err := uow.Users().FindByNormalizedEmail(ctx, normalized)
	if err != nil {
		return out, fmt.Errorf("find user by email: %w", err)
	}
	if existing != nil {
		return out, ErrEmailAlreadyExists
	}

	// パスワードルール（違反は全部まとめて返す）
	if err := u.policy.Validate(in.Password); err != nil {
		return out, err
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, fmt.Errorf("hash password: %w", err)
	}

	now := u.clock.Now()
	user := &model.User{
		ID:              u.idGen.NewID(),
		Email:           email,
		NormalizedEmail: normalized,
		PasswordHash:    hashed,
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		LockoutEnabled:  true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	uow.Users().Add(user)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return out, fmt.Errorf("create user: %w", err)
	}

	token, err := u.issuer.Issue(user, now)
	if err != nil {
		return out, fmt.Errorf("issue token: %w", err)
	}
	return newAuthResponse(user, token), nil
}
