package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Ledger (LED) ----

func ErrInvalidAmount() *AppError {
	return New("LED_001", "Amount must be a positive value with valid currency precision", http.StatusBadRequest)
}

func ErrInsufficientFunds() *AppError {
	return New("LED_002", "Insufficient funds in source wallet", http.StatusPaymentRequired)
}

func ErrCrossTenantTransfer() *AppError {
	return New("LED_003", "Wallets belong to different businesses", http.StatusForbidden)
}

func ErrWalletInactive() *AppError {
	return New("LED_004", "Wallet is deactivated", http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New("LED_005", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- State machines (TRN) ----

func ErrInvalidTransition(detail string) *AppError {
	return New("TRN_001", detail, http.StatusConflict)
}

// ---- Validation (VAL) ----

func ErrValidation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

func ErrMetricOutOfRange(metric string) *AppError {
	return New("VAL_002", fmt.Sprintf("%s must be between 0 and 100", metric), http.StatusBadRequest)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrEmailExists() *AppError {
	return New("AUTH_002", "Email already registered", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_002", "Internal database error", http.StatusInternalServerError, err)
}

// Validation is a short alias used by handler binding failures.
func Validation(message string) *AppError {
	return ErrValidation(message)
}
