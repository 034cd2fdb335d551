package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditStatus moves from pending to paid and never back.
type CreditStatus string

const (
	CreditStatusPending CreditStatus = "pending"
	CreditStatusPaid    CreditStatus = "paid"
)

// CustomerCredit is an amount a customer owes the business.
type CustomerCredit struct {
	Owned
	CustomerName string          `json:"customer_name" binding:"required,max=100"`
	Amount       decimal.Decimal `json:"amount" binding:"gt=0"`
	Date         time.Time       `json:"date"`
	Status       CreditStatus    `json:"status" binding:"omitempty,oneof=pending paid"`
	PaidDate     *time.Time      `json:"paid_date,omitempty"`
	Notes        string          `json:"notes,omitempty" binding:"max=1000"`
}
