package errors

import (
	"net/http"

	"github.com/masad-stock/mutech-civil-hrm/internal/shared/apperror"
)

var (
	ErrUserNotFound            = apperror.New(apperror.CodeNotFound, "user not found", http.StatusNotFound)
	ErrEmailAlreadyExists      = apperror.New(apperror.CodeConflict, "email is already registered", http.StatusConflict)
	ErrEmployeeNumberConflict  = apperror.New(apperror.CodeConflict, "employee number already exists", http.StatusConflict)
	ErrDepartmentNotFound      = apperror.New(apperror.CodeInvalidInput, "department not found", http.StatusBadRequest)
	ErrUserInactive            = apperror.New(apperror.CodeInvalidState, "user account is deactivated", http.StatusConflict)
	ErrInvalidEmployeeSequence = apperror.New(apperror.CodeInternalError, "could not allocate employee number", http.StatusInternalServerError)
)
