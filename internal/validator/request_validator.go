package validator

import (
	"net/http"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/usecase"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// POST /api/auth/register
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(1, 256), is.EmailFormat),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.FirstName, validation.Length(0, 100)),
		validation.Field(&r.LastName, validation.Length(0, 100)),
	)
}

// POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required),
	)
}

// POST /api/basket/items
type AddToBasketRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

func (r AddToBasketRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.Required),
		// ozzoのMin/Maxはゼロ値を見ないのでRequiredで0を弾く
		validation.Field(&r.Quantity,
			validation.Required.Error("Quantity must be between 1 and 100"),
			validation.Min(int64(1)).Error("Quantity must be between 1 and 100"),
			validation.Max(int64(100)).Error("Quantity must be between 1 and 100"),
		),
	)
}

// POST /api/product/sync?limit=
type SyncRequest struct {
	Limit int
}

func (r SyncRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Limit, validation.Min(0)),
	)
}

// Check はvalidation.Validatableを検証し、失敗なら400のHTTPErrorにする。
func Check(v validation.Validatable) error {
	if err := v.Validate(); err != nil {
		return usecase.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
