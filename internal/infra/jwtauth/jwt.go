// Package jwtauth はHS256のアクセストークンを発行・検証する。
package jwtauth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/config"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// アクセストークンのclaims
type Claims struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Name       string `json:"name"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// DI
func NewIssuer(cfg config.JWTConfig) *Issuer {
	return &Issuer{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TTL,
	}
}

// Issue はユーザーのトークンを作る（jtiは毎回新しいUUID）
func (i *Issuer) Issue(user *model.User, now time.Time) (string, error) {
	claims := Claims{
		Email:      user.Email,
		GivenName:  user.FirstName,
		FamilyName: user.LastName,
		Name:       user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

type Verifier struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

// DI
func NewVerifier(cfg config.JWTConfig) *Verifier {
	return &Verifier{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		now:      time.Now,
	}
}

// Verify は署名・期限・iss・audを確認してclaimsを返す。
func (v *Verifier) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	// v4のValid()はiss/audを見ないので自分で見る
	now := v.now()
	if !claims.VerifyExpiresAt(now, true) {
		return nil, fmt.Errorf("%w: expired", ErrInvalidToken)
	}
	if !claims.VerifyIssuer(v.issuer, true) {
		return nil, fmt.Errorf("%w: issuer mismatch", ErrInvalidToken)
	}
	if !claims.VerifyAudience(v.audience, true) {
		return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidToken)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}
	return claims, nil
}
