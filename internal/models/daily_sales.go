package models

import "github.com/shopspring/decimal"

// DailySales is one day's takings split by payment method. TotalAmount is
// always recomputed by the store.
type DailySales struct {
	Owned
	Date        string          `json:"date" binding:"required,datetime=2006-01-02"`
	CashAmount  decimal.Decimal `json:"cash_amount" binding:"gte=0"`
	CardAmount  decimal.Decimal `json:"card_amount" binding:"gte=0"`
	UPIAmount   decimal.Decimal `json:"upi_amount" binding:"gte=0"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Notes       string          `json:"notes,omitempty" binding:"max=1000"`
}

// SalesTotal returns cash + card + upi.
func SalesTotal(cash, card, upi decimal.Decimal) decimal.Decimal {
	return cash.Add(card).Add(upi)
}
