package models

import "github.com/shopspring/decimal"

// PayerSource identifies who paid an expense.
type PayerSource string

const (
	PayerSelf     PayerSource = "Self"
	PayerBusiness PayerSource = "Business"
	PayerOther    PayerSource = "Other"
)

// PaymentMethod is how an expense or share was paid.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "Cash"
	PaymentCard         PaymentMethod = "Card"
	PaymentUPI          PaymentMethod = "UPI"
	PaymentBankTransfer PaymentMethod = "Bank Transfer"
)

// ExpenseShare is one payer's part of a shared expense.
type ExpenseShare struct {
	PayerType     PayerSource     `json:"payer_type" binding:"required,payer_source"`
	PayerName     string          `json:"payer_name,omitempty" binding:"max=100"`
	Amount        decimal.Decimal `json:"amount" binding:"gt=0"`
	PaymentMethod PaymentMethod   `json:"payment_method" binding:"required,payment_method"`
}

// Expense is a business or household expense. A shared expense lists its
// shares instead of a single payer.
type Expense struct {
	Owned
	Category      string          `json:"category" binding:"required,max=100"`
	Amount        decimal.Decimal `json:"amount" binding:"gt=0"`
	Date          string          `json:"date" binding:"required,datetime=2006-01-02"`
	Description   string          `json:"description,omitempty" binding:"max=500"`
	IsShared      bool            `json:"is_shared"`
	PaidBy        PayerSource     `json:"paid_by,omitempty" binding:"omitempty,payer_source"`
	PayerName     string          `json:"payer_name,omitempty" binding:"max=100"`
	PaymentMethod PaymentMethod   `json:"payment_method,omitempty" binding:"omitempty,payment_method"`
	Shares        []ExpenseShare  `json:"shares,omitempty" binding:"dive"`
}
