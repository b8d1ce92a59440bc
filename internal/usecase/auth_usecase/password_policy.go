package auth

import (
	"strconv"
	"strings"
)

// PasswordPolicy はパスワードの強度ルール
type PasswordPolicy struct {
	RequiredLength   int
	RequireDigit     bool
	RequireLowercase bool
	RequireUppercase bool
}

func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		RequiredLength:   6,
		RequireDigit:     true,
		RequireLowercase: true,
		RequireUppercase: true,
	}
}

// 満たしていないルールの説明をまとめて持つ
type PasswordPolicyError struct {
	Descriptions []string
}

func (e *PasswordPolicyError) Error() string {
	return "User registration failed: " + strings.Join(e.Descriptions, ", ")
}

// Validate は違反をすべて集めて返す。問題なければ nil
func (p PasswordPolicy) Validate(password string) error {
	var hasDigit, hasLower, hasUpper bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		}
	}

	var desc []string
	if len([]rune(password)) < p.RequiredLength {
		desc = append(desc, "Passwords must be at least "+strconv.Itoa(p.RequiredLength)+" characters.")
	}
	if p.RequireDigit && !hasDigit {
		desc = append(desc, "Passwords must have at least one digit ('0'-'9').")
	}
	if p.RequireLowercase && !hasLower {
		desc = append(desc, "Passwords must have at least one lowercase ('a'-'z').")
	}
	if p.RequireUppercase && !hasUpper {
		desc = append(desc, "Passwords must have at least one uppercase ('A'-'Z').")
	}
	if len(desc) == 0 {
		return nil
	}
	return &PasswordPolicyError{Descriptions: desc}
}
