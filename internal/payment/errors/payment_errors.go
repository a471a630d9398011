package errors

import (
	"net/http"

	"github.com/masad-stock/mutech-civil-hrm/internal/shared/apperror"
)

var (
	ErrPaymentNotFound   = apperror.New(apperror.CodeNotFound, "payment not found", http.StatusNotFound)
	ErrInvalidTransition = apperror.New(apperror.CodeInvalidState, "payment is not pending", http.StatusConflict)
	ErrInvalidAmount     = apperror.New(apperror.CodeInvalidInput, "amount must be greater than zero", http.StatusBadRequest)
	ErrGatewayRejected   = apperror.New(apperror.CodeGatewayError, "payment gateway rejected the request", http.StatusBadGateway)
	ErrPayrollNotFound   = apperror.New(apperror.CodeInvalidInput, "linked payroll record not found", http.StatusBadRequest)
)
