package errors

import (
	"net/http"

	"github.com/masad-stock/mutech-civil-hrm/internal/shared/apperror"
)

var (
	ErrProfileNotFound = apperror.New(apperror.CodeNotFound, "employee profile not found", http.StatusNotFound)
	ErrInvalidRating   = apperror.New(apperror.CodeInvalidInput, "performance rating must be one of: excellent, good, satisfactory, needs_improvement", http.StatusBadRequest)
)
