// Package errors provides custom error types for the Hisaab API.
// All store and service errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import (
	"errors"
	"net/http"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// IsNotFound reports whether err is a not-found AppError. Records owned by
// another user are reported the same way as missing ones.
func IsNotFound(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.StatusCode == http.StatusNotFound
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid username or password", StatusCode: http.StatusUnauthorized}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound      = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateUsername = &AppError{Code: "DUPLICATE_USERNAME", Message: "A user with this username already exists", StatusCode: http.StatusConflict}
	ErrDriveEmailInUse   = &AppError{Code: "DRIVE_EMAIL_IN_USE", Message: "This backup email is linked to another user", StatusCode: http.StatusConflict}
)

// Record errors. Every message contains "not found".
var (
	ErrCreditCardNotFound     = &AppError{Code: "CREDIT_CARD_NOT_FOUND", Message: "Credit card not found", StatusCode: http.StatusNotFound}
	ErrDebitCardNotFound      = &AppError{Code: "DEBIT_CARD_NOT_FOUND", Message: "Debit card not found", StatusCode: http.StatusNotFound}
	ErrBankAccountNotFound    = &AppError{Code: "BANK_ACCOUNT_NOT_FOUND", Message: "Bank account not found", StatusCode: http.StatusNotFound}
	ErrLoanNotFound           = &AppError{Code: "LOAN_NOT_FOUND", Message: "Loan not found", StatusCode: http.StatusNotFound}
	ErrRepaymentNotFound      = &AppError{Code: "REPAYMENT_NOT_FOUND", Message: "Repayment not found", StatusCode: http.StatusNotFound}
	ErrPasswordNotFound       = &AppError{Code: "PASSWORD_NOT_FOUND", Message: "Password not found", StatusCode: http.StatusNotFound}
	ErrCustomerCreditNotFound = &AppError{Code: "CUSTOMER_CREDIT_NOT_FOUND", Message: "Customer credit not found", StatusCode: http.StatusNotFound}
	ErrExpenseNotFound        = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrDailySalesNotFound     = &AppError{Code: "DAILY_SALES_NOT_FOUND", Message: "Daily sales record not found", StatusCode: http.StatusNotFound}
	ErrDocumentNotFound       = &AppError{Code: "DOCUMENT_NOT_FOUND", Message: "Document not found", StatusCode: http.StatusNotFound}
)

// Backup errors.
var (
	ErrBackupNotLinked = &AppError{Code: "BACKUP_NOT_LINKED", Message: "No backup email is linked to this user", StatusCode: http.StatusBadRequest}
	ErrBackupNotFound  = &AppError{Code: "BACKUP_NOT_FOUND", Message: "Backup not found", StatusCode: http.StatusNotFound}
	ErrBackupCorrupt   = &AppError{Code: "BACKUP_CORRUPT", Message: "Backup could not be read", StatusCode: http.StatusUnprocessableEntity}
)
