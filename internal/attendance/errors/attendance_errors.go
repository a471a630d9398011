package errors

import (
	"net/http"

	"github.com/masad-stock/mutech-civil-hrm/internal/shared/apperror"
)

var (
	ErrAlreadyClockedIn  = apperror.New(apperror.CodeConflict, "already clocked in today", http.StatusConflict)
	ErrNotClockedIn      = apperror.New(apperror.CodeInvalidState, "no clock-in recorded for today", http.StatusConflict)
	ErrAlreadyClockedOut = apperror.New(apperror.CodeInvalidState, "already clocked out today", http.StatusConflict)
	ErrBreakOpen         = apperror.New(apperror.CodeInvalidState, "a break is already in progress", http.StatusConflict)
	ErrNoBreakOpen       = apperror.New(apperror.CodeInvalidState, "no break in progress", http.StatusConflict)
	ErrRecordNotFound    = apperror.New(apperror.CodeNotFound, "attendance record not found", http.StatusNotFound)
)
