package auth

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/domain/model"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// register / login / me が返す形
type AuthResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

var (
	// メール重複
	ErrEmailAlreadyExists = errors.New("email already exists")

	// メール不明・パスワード違い・ロックアウト中はすべてこれ（区別しない）
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(user *model.User, now time.Time) (string, error)
}

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// NormalizeEmail は比較用のメール（前後空白除去＋小文字）
func NormalizeEmail(email string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(email))
}

func newAuthResponse(u *model.User, token string) AuthResponse {
	return AuthResponse{
		Token:     token,
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// 本番で使うbcryptのコスト
const PasswordHashCost = 12

// ユーザー不明・ロックアウト中も照合1回分の時間をかけるための比較用ハッシュ
var dummyPasswordHash = sync.OnceValue(func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), PasswordHashCost)
	if err != nil {
		return ""
	}
	return string(h)
})

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

// DI
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost}
}

// bcryptでハッシュ化
func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}

// bcryptハッシュと平文を比較
type BcryptPasswordVerifier struct{}

// DI
func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

// 平文(plain)をbcryptで比較
func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	return err == nil
}
