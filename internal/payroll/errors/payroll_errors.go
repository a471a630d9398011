package errors

import (
	"net/http"

	"github.com/masad-stock/mutech-civil-hrm/internal/shared/apperror"
)

var (
	ErrPayrollNotFound    = apperror.New(apperror.CodeNotFound, "payroll record not found", http.StatusNotFound)
	ErrPeriodExists       = apperror.New(apperror.CodeConflict, "payroll has already been generated for this period", http.StatusConflict)
	ErrInvalidPeriod      = apperror.New(apperror.CodeInvalidInput, "month must be 1-12 and year must be reasonable", http.StatusBadRequest)
	ErrNoEligibleUsers    = apperror.New(apperror.CodeInvalidState, "no active salaried employees to pay", http.StatusConflict)
	ErrPayrollAlreadyPaid = apperror.New(apperror.CodeInvalidState, "payroll record has already been paid", http.StatusConflict)
)
