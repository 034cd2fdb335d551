package testutil

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "hisaab/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNotFound checks that err is one of the per-kind not-found errors.
// Records owned by another user report the same error.
func AssertNotFound(t *testing.T, err error) {
	t.Helper()

	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected a not-found AppError, got %v", err)
	}
}

// AssertAmount compares a decimal amount numerically with want, e.g. "10.55".
// "10.5" and "10.50" are equal.
func AssertAmount(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()

	expected, err := decimal.NewFromString(want)
	if err != nil {
		t.Fatalf("invalid expected amount %q: %v", want, err)
	}
	if !got.Equal(expected) {
		t.Errorf("expected amount %s, got %s", expected, got)
	}
}

// SumAmounts adds up the amounts of a list of records.
func SumAmounts[T any](records []T, amount func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range records {
		total = total.Add(amount(rec))
	}
	return total
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
