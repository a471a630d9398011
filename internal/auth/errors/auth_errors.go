package errors

import (
	"net/http"

	"github.com/masad-stock/mutech-civil-hrm/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(apperror.CodeUnauthorized, "invalid email or password", http.StatusUnauthorized)
	ErrAccountInactive    = apperror.New(apperror.CodeForbidden, "account is deactivated", http.StatusForbidden)
	ErrInvalidToken       = apperror.New("INVALID_TOKEN", "invalid token", http.StatusUnauthorized)
	ErrTokenExpired       = apperror.New("TOKEN_EXPIRED", "token has expired", http.StatusUnauthorized)
	ErrWrongPassword      = apperror.New(apperror.CodeUnauthorized, "current password is incorrect", http.StatusUnauthorized)
)
