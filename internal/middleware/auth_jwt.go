package middleware

import (
	"net/http"
	"strings"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/infra/jwtauth"

	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey    = "user_id"    // string(UUID)
	CtxUserEmailKey = "user_email" // string
)

// トークンを検証する約束（jwtauth.Verifier）
type TokenVerifier interface {
	Verify(raw string) (*jwtauth.Claims, error)
}

// bearerAuth用のJWT検証ミドルウェア。
func AuthJWT(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("User not authenticated."))
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("User not authenticated."))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("User not authenticated."))
			}

			//署名・期限・iss・audを検証
			claims, err := verifier.Verify(rawToken)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("User not authenticated."))
			}

			//contextへ保存
			c.Set(CtxUserIDKey, claims.Subject)
			c.Set(CtxUserEmailKey, claims.Email)

			return next(c)
		}
	}
}

// UserID はAuthJWTが入れたユーザーIDを取り出す。無ければ空文字
func UserID(c echo.Context) string {
	id, _ := c.Get(CtxUserIDKey).(string)
	return id
}

type errorResponse struct {
	Message string `json:"message"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Message: msg}
}
