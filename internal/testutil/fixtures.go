package testutil

import (
	"encoding/base64"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"hisaab/internal/models"
	"hisaab/internal/store"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique username.
func CreateTestUser(t *testing.T, s *store.Store) *models.User {
	t.Helper()
	return CreateTestUserWithUsername(t, s, fmt.Sprintf("user%d", nextID()))
}

// CreateTestUserWithUsername creates a user with the given username.
func CreateTestUserWithUsername(t *testing.T, s *store.Store, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user, err := s.CreateUser(username, string(hash))
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// ValidCardDetails returns card fields that pass binding validation.
func ValidCardDetails() models.CardDetails {
	return models.CardDetails{
		CardName:   fmt.Sprintf("Test Card %d", nextID()),
		CardNumber: "4111111111111111",
		Expiry:     "12/29",
		CVV:        "123",
		Network:    "Visa",
		Issuer:     "HDFC",
		Tags:       []string{"personal"},
	}
}

// CreateTestCreditCard creates a credit card for the user.
func CreateTestCreditCard(t *testing.T, s *store.Store, userID uint) *models.CreditCard {
	t.Helper()
	return s.CreditCards.Create(userID, models.CreditCard{CardDetails: ValidCardDetails()})
}

// CreateTestDebitCard creates a debit card for the user.
func CreateTestDebitCard(t *testing.T, s *store.Store, userID uint) *models.DebitCard {
	t.Helper()
	return s.DebitCards.Create(userID, models.DebitCard{CardDetails: ValidCardDetails()})
}

// ValidBankAccount returns a bank account that passes binding validation.
func ValidBankAccount() models.BankAccount {
	return models.BankAccount{
		BankName:      fmt.Sprintf("Test Bank %d", nextID()),
		AccountNumber: "123456789012",
		AccountType:   "Savings",
		IFSCCode:      "HDFC0001234",
		MPIN:          "1234",
		Tags:          []string{},
	}
}

// CreateTestBankAccount creates a bank account for the user.
func CreateTestBankAccount(t *testing.T, s *store.Store, userID uint) *models.BankAccount {
	t.Helper()
	return s.BankAccounts.Create(userID, ValidBankAccount())
}

// CreateTestLoan creates an active loan given by the user.
func CreateTestLoan(t *testing.T, s *store.Store, userID uint, amount int64) *models.Loan {
	t.Helper()
	return s.CreateLoan(userID, models.Loan{
		PersonName: fmt.Sprintf("Person %d", nextID()),
		Amount:     decimal.NewFromInt(amount),
		Type:       models.LoanTypeGiven,
	})
}

// CreateTestRepayment records a repayment against the loan.
func CreateTestRepayment(t *testing.T, s *store.Store, userID, loanID uint, amount int64) *models.Repayment {
	t.Helper()

	r, err := s.CreateRepayment(userID, loanID, models.Repayment{Amount: decimal.NewFromInt(amount)})
	if err != nil {
		t.Fatalf("failed to create test repayment: %v", err)
	}
	return r
}

// ValidPassword returns a password record that passes binding validation.
func ValidPassword() models.Password {
	return models.Password{
		ServiceName:      fmt.Sprintf("Service %d", nextID()),
		Username:         "me",
		Secret:           "hunter2",
		IsActualPassword: true,
	}
}

// CreateTestPassword creates a password record for the user.
func CreateTestPassword(t *testing.T, s *store.Store, userID uint) *models.Password {
	t.Helper()
	return s.Passwords.Create(userID, ValidPassword())
}

// CreateTestCustomerCredit creates a pending customer credit.
func CreateTestCustomerCredit(t *testing.T, s *store.Store, userID uint, amount int64) *models.CustomerCredit {
	t.Helper()
	return s.CustomerCredits.Create(userID, models.CustomerCredit{
		CustomerName: fmt.Sprintf("Customer %d", nextID()),
		Amount:       decimal.NewFromInt(amount),
		Date:         time.Now().UTC(),
	})
}

// ValidExpense returns an unshared expense paid in cash by the user.
func ValidExpense() models.Expense {
	return models.Expense{
		Category:      "Supplies",
		Amount:        decimal.NewFromInt(250),
		Date:          "2024-03-15",
		PaidBy:        models.PayerSelf,
		PaymentMethod: models.PaymentCash,
	}
}

// CreateTestExpense creates an expense for the user.
func CreateTestExpense(t *testing.T, s *store.Store, userID uint) *models.Expense {
	t.Helper()
	return s.Expenses.Create(userID, ValidExpense())
}

// CreateTestDailySales creates a daily sales record for the given ISO date.
func CreateTestDailySales(t *testing.T, s *store.Store, userID uint, date string, cash, card, upi int64) *models.DailySales {
	t.Helper()
	return s.DailySales.Create(userID, models.DailySales{
		Date:       date,
		CashAmount: decimal.NewFromInt(cash),
		CardAmount: decimal.NewFromInt(card),
		UPIAmount:  decimal.NewFromInt(upi),
	})
}

// ValidDocument returns a document that passes binding validation.
func ValidDocument() models.Document {
	return models.Document{
		DocumentType: models.DocumentPAN,
		FileName:     fmt.Sprintf("pan-%d.pdf", nextID()),
		FileData:     base64.StdEncoding.EncodeToString([]byte("%PDF-1.4")),
		Tags:         []string{"identity"},
	}
}

// CreateTestDocument creates a document for the user.
func CreateTestDocument(t *testing.T, s *store.Store, userID uint) *models.Document {
	t.Helper()
	return s.Documents.Create(userID, ValidDocument())
}
