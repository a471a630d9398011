package errors

import (
	"net/http"

	"github.com/masad-stock/mutech-civil-hrm/internal/shared/apperror"
)

var (
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Department not found",
		http.StatusNotFound,
	)

	ErrDuplicateDepartment = apperror.New(
		apperror.CodeConflict,
		"A department with this name or code already exists",
		http.StatusConflict,
	)

	ErrInvalidManagerID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid manager id",
		http.StatusBadRequest,
	)
)
