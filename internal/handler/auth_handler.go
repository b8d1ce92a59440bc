package handler

import (
	"errors"
	"net/http"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/middleware"
	auth "github.com/kockiy1/Abysalto-AP-Mid/internal/usecase/auth_usecase"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/validator"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase // 会員登録usecase
	loginUC    *auth.LoginUsecase        // ログインusecase
	currentUC  *auth.CurrentUserUsecase  // /me
}

// DIコンストラクタ
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	currentUC *auth.CurrentUserUsecase,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		currentUC:  currentUC,
	}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, authMW echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.GET("/me", h.me, authMW)
}

// POST /api/auth/register
func (h *AuthHandler) register(c echo.Context) error {
	var req validator.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validator.Check(req); err != nil {
		return writeError(c, err)
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// POST /api/auth/login
func (h *AuthHandler) login(c echo.Context) error {
	var req validator.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validator.Check(req); err != nil {
		return writeError(c, err)
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /api/auth/me
func (h *AuthHandler) me(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated."})
	}

	out, err := h.currentUC.Execute(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: "User not found."})
	}
	return c.JSON(http.StatusOK, out)
}

// authのsentinelをHTTPに変換
func writeAuthError(c echo.Context, err error) error {
	var policyErr *auth.PasswordPolicyError
	switch {
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "User with this email already exists."})
	case errors.As(err, &policyErr):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: policyErr.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid email or password."})
	default:
		return writeError(c, err)
	}
}
