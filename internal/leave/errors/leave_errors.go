package errors

import (
	"net/http"

	"github.com/masad-stock/mutech-civil-hrm/internal/shared/apperror"
)

var (
	ErrLeaveNotFound       = apperror.New(apperror.CodeNotFound, "leave request not found", http.StatusNotFound)
	ErrPastStartDate       = apperror.New(apperror.CodeInvalidInput, "start date cannot be in the past", http.StatusBadRequest)
	ErrInvalidDateRange    = apperror.New(apperror.CodeInvalidInput, "end date must not be before start date", http.StatusBadRequest)
	ErrInvalidLeaveType    = apperror.New(apperror.CodeInvalidInput, "invalid leave type", http.StatusBadRequest)
	ErrInsufficientBalance = apperror.New(apperror.CodeConflict, "insufficient leave balance", http.StatusConflict)
	ErrAlreadyReviewed     = apperror.New(apperror.CodeInvalidState, "leave request has already been reviewed", http.StatusConflict)
)
