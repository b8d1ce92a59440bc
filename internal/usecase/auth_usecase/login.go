package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/repository"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email    string
	Password string
}

// 連続失敗でのロックアウト
type LockoutPolicy struct {
	MaxFailedAttempts int
	Duration          time.Duration
}

func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{MaxFailedAttempts: 5, Duration: 5 * time.Minute}
}

type LoginUsecase struct {
	uow      repository.UnitOfWorkFactory
	verifier PasswordVerifier
	issuer   AccessTokenIssuer
	lockout  LockoutPolicy
	clock    Clock
}

func NewLoginUsecase(
	uow repository.UnitOfWorkFactory,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	lockout LockoutPolicy,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		uow:      uow,
		verifier: verifier,
		issuer:   issuer,
		lockout:  lockout,
		clock:    clock,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (AuthResponse, error) {
	var out AuthResponse

	uow := u.uow.New()
	now := u.clock.Now()

	//emailでユーザー取得
	user, err := uow.Users().FindByNormalizedEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		return out, fmt.Errorf("find user by email: %w", err)
	}
	if user == nil {
		u.verifier.Verify(in.Password, dummyPasswordHash())
		return out, ErrInvalidCredentials
	}

	//ロックアウト中は本物のハッシュと比べない（応答時間は揃える）
	if user.IsLockedOut(now) {
		u.verifier.Verify(in.Password, dummyPasswordHash())
		return out, ErrInvalidCredentials
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		if user.LockoutEnabled {
			user.AccessFailedCount++
			if user.AccessFailedCount >= u.lockout.MaxFailedAttempts {
				end := now.Add(u.lockout.Duration)
				user.LockoutEnd = &end
				user.AccessFailedCount = 0
			}
			user.UpdatedAt = now
			uow.Users().Update(user)
			if _, err := uow.SaveChanges(ctx); err != nil {
				return out, fmt.Errorf("record failed login: %w", err)
			}
		}
		return out, ErrInvalidCredentials
	}

	//成功したら失敗回数を戻す
	if user.AccessFailedCount > 0 || user.LockoutEnd != nil {
		user.AccessFailedCount = 0
		user.LockoutEnd = nil
		user.UpdatedAt = now
		uow.Users().Update(user)
		if _, err := uow.SaveChanges(ctx); err != nil {
			return out, fmt.Errorf("reset failed logins: %w", err)
		}
	}

	//AccessToken発行
	token, err := u.issuer.Issue(user, now)
	if err != nil {
		return out, fmt.Errorf("issue token: %w", err)
	}
	return newAuthResponse(user, token), nil
}
