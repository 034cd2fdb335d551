package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanType is the direction of a loan relative to the user.
type LoanType string

const (
	LoanTypeGiven    LoanType = "given"
	LoanTypeReceived LoanType = "received"
)

// LoanStatus moves from active to completed and never back.
type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "active"
	LoanStatusCompleted LoanStatus = "completed"
)

// Loan is money lent to or borrowed from a person.
type Loan struct {
	Owned
	PersonName  string          `json:"person_name"`
	Amount      decimal.Decimal `json:"amount"`
	Type        LoanType        `json:"type"`
	Description string          `json:"description,omitempty"`
	Status      LoanStatus      `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// LoanPatch carries a partial loan update. Nil fields are left unchanged.
type LoanPatch struct {
	PersonName  *string
	Amount      *decimal.Decimal
	Type        *LoanType
	Description *string
}

// Apply merges the non-nil patch fields into l.
func (p LoanPatch) Apply(l *Loan) {
	if p.PersonName != nil {
		l.PersonName = *p.PersonName
	}
	if p.Amount != nil {
		l.Amount = *p.Amount
	}
	if p.Type != nil {
		l.Type = *p.Type
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
}

// Repayment is a partial or full repayment of a loan. It has no owner of its
// own; access goes through the parent loan.
type Repayment struct {
	Base
	LoanID uint            `json:"loan_id"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Note   string          `json:"note,omitempty"`
}

// ScopeID returns the parent loan's ID.
func (r *Repayment) ScopeID() uint { return r.LoanID }

// SetScopeID sets the parent loan's ID.
func (r *Repayment) SetScopeID(id uint) { r.LoanID = id }
