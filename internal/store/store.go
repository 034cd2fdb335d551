// Package store is the in-memory, per-user record store. It owns every
// entity for the lifetime of the process, enforces that users only see
// their own records, derives computed fields on write, and cascades
// deletions to dependent records.
package store

import (
	"slices"
	"sync"
	"time"

	apperrors "hisaab/internal/errors"
	"hisaab/internal/models"
)

// Observer is notified after every successful mutation with the entity kind
// label and the operation name.
type Observer func(kind, op string)

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now. Tests use it to pin timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.nowFn = now
	}
}

// WithObserver registers a mutation observer.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		s.observer = o
	}
}

// Store holds every collection behind a single lock. Create one per process
// and pass it to whatever serves requests.
type Store struct {
	mu       sync.RWMutex
	ids      *Sequence
	nowFn    func() time.Time
	observer Observer

	users map[uint]models.User

	CreditCards     *Collection[models.CreditCard, *models.CreditCard]
	DebitCards      *Collection[models.DebitCard, *models.DebitCard]
	BankAccounts    *Collection[models.BankAccount, *models.BankAccount]
	Passwords       *Collection[models.Password, *models.Password]
	CustomerCredits *Collection[models.CustomerCredit, *models.CustomerCredit]
	Expenses        *Collection[models.Expense, *models.Expense]
	DailySales      *Collection[models.DailySales, *models.DailySales]
	Documents       *Collection[models.Document, *models.Document]

	// Loans and repayments are reached through Store methods so that
	// partial updates and the repayment access rule cannot be bypassed.
	loans      *Collection[models.Loan, *models.Loan]
	repayments *Collection[models.Repayment, *models.Repayment]
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		ids:   NewSequence(),
		nowFn: time.Now,
		users: make(map[uint]models.User),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.CreditCards = newCollection[models.CreditCard](s, labelCreditCard, apperrors.ErrCreditCardNotFound, hooks[models.CreditCard]{
		clone: func(c models.CreditCard) models.CreditCard {
			c.Tags = slices.Clone(c.Tags)
			return c
		},
	})
	s.DebitCards = newCollection[models.DebitCard](s, labelDebitCard, apperrors.ErrDebitCardNotFound, hooks[models.DebitCard]{
		clone: func(c models.DebitCard) models.DebitCard {
			c.Tags = slices.Clone(c.Tags)
			return c
		},
	})
	s.BankAccounts = newCollection[models.BankAccount](s, labelBankAccount, apperrors.ErrBankAccountNotFound, hooks[models.BankAccount]{
		clone: func(a models.BankAccount) models.BankAccount {
			a.Tags = slices.Clone(a.Tags)
			return a
		},
	})
	s.Passwords = newCollection[models.Password](s, labelPassword, apperrors.ErrPasswordNotFound, hooks[models.Password]{})
	s.CustomerCredits = newCollection[models.CustomerCredit](s, labelCustomerCredit, apperrors.ErrCustomerCreditNotFound, hooks[models.CustomerCredit]{
		onCreate: func(c *models.CustomerCredit, now time.Time) {
			if c.Status == "" {
				c.Status = models.CreditStatusPending
			}
			if c.Date.IsZero() {
				c.Date = now
			}
		},
		onReplace: func(prev, next *models.CustomerCredit, now time.Time) {
			if next.Date.IsZero() {
				next.Date = prev.Date
			}
			switch {
			case prev.Status == models.CreditStatusPaid:
				// Paid is terminal.
				next.Status = prev.Status
				next.PaidDate = cloneTime(prev.PaidDate)
			case next.Status == models.CreditStatusPaid:
				if next.PaidDate == nil {
					next.PaidDate = &now
				}
			default:
				next.Status = models.CreditStatusPending
				next.PaidDate = nil
			}
		},
		clone: func(c models.CustomerCredit) models.CustomerCredit {
			c.PaidDate = cloneTime(c.PaidDate)
			return c
		},
	})
	s.Expenses = newCollection[models.Expense](s, labelExpense, apperrors.ErrExpenseNotFound, hooks[models.Expense]{
		clone: func(e models.Expense) models.Expense {
			e.Shares = slices.Clone(e.Shares)
			return e
		},
	})
	s.DailySales = newCollection[models.DailySales](s, labelDailySales, apperrors.ErrDailySalesNotFound, hooks[models.DailySales]{
		onCreate: func(d *models.DailySales, _ time.Time) {
			d.TotalAmount = models.SalesTotal(d.CashAmount, d.CardAmount, d.UPIAmount)
		},
		onReplace: func(_, next *models.DailySales, _ time.Time) {
			next.TotalAmount = models.SalesTotal(next.CashAmount, next.CardAmount, next.UPIAmount)
		},
		less: newestSalesFirst,
	})
	s.Documents = newCollection[models.Document](s, labelDocument, apperrors.ErrDocumentNotFound, hooks[models.Document]{
		onCreate: func(d *models.Document, now time.Time) {
			if d.CreatedAt.IsZero() {
				d.CreatedAt = now
			}
			if d.UpdatedAt.IsZero() {
				d.UpdatedAt = d.CreatedAt
			}
		},
		onReplace: func(prev, next *models.Document, now time.Time) {
			next.CreatedAt = prev.CreatedAt
			next.UpdatedAt = now
		},
		clone: func(d models.Document) models.Document {
			d.Tags = slices.Clone(d.Tags)
			return d
		},
	})
	s.repayments = newCollection[models.Repayment](s, labelRepayment, apperrors.ErrRepaymentNotFound, hooks[models.Repayment]{
		onCreate: func(r *models.Repayment, now time.Time) {
			if r.Date.IsZero() {
				r.Date = now
			}
		},
		less: func(a, b *models.Repayment) bool {
			if !a.Date.Equal(b.Date) {
				return a.Date.Before(b.Date)
			}
			return a.ID < b.ID
		},
	})
	s.loans = newCollection[models.Loan](s, labelLoan, apperrors.ErrLoanNotFound, hooks[models.Loan]{
		onCreate: func(l *models.Loan, now time.Time) {
			if l.Status == "" {
				l.Status = models.LoanStatusActive
			}
			if l.CreatedAt.IsZero() {
				l.CreatedAt = now
			}
		},
		onDelete: func(l *models.Loan) {
			if n := s.repayments.removeWhere(func(r *models.Repayment) bool { return r.LoanID == l.ID }); n > 0 {
				s.observe(labelRepayment, "cascade")
			}
		},
		clone: func(l models.Loan) models.Loan {
			l.CompletedAt = cloneTime(l.CompletedAt)
			return l
		},
	})

	return s
}

// Reset wipes every record, user and identifier counter.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.users)
	s.ids.Reset()
	s.CreditCards.reset()
	s.DebitCards.reset()
	s.BankAccounts.reset()
	s.Passwords.reset()
	s.CustomerCredits.reset()
	s.Expenses.reset()
	s.DailySales.reset()
	s.Documents.reset()
	s.loans.reset()
	s.repayments.reset()
}

// ClearUserData removes every record owned by userID, including the
// repayments of the user's loans, and returns how many records were removed.
// The user row itself is kept.
func (s *Store) ClearUserData(userID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := make(map[uint]bool)
	for id, l := range s.loans.rows {
		if l.UserID == userID {
			owned[id] = true
		}
	}

	n := s.repayments.removeWhere(func(r *models.Repayment) bool { return owned[r.LoanID] })
	n += s.loans.removeWhere(func(l *models.Loan) bool { return l.UserID == userID })
	n += s.CreditCards.removeWhere(func(c *models.CreditCard) bool { return c.UserID == userID })
	n += s.DebitCards.removeWhere(func(c *models.DebitCard) bool { return c.UserID == userID })
	n += s.BankAccounts.removeWhere(func(a *models.BankAccount) bool { return a.UserID == userID })
	n += s.Passwords.removeWhere(func(p *models.Password) bool { return p.UserID == userID })
	n += s.CustomerCredits.removeWhere(func(c *models.CustomerCredit) bool { return c.UserID == userID })
	n += s.Expenses.removeWhere(func(e *models.Expense) bool { return e.UserID == userID })
	n += s.DailySales.removeWhere(func(d *models.DailySales) bool { return d.UserID == userID })
	n += s.Documents.removeWhere(func(d *models.Document) bool { return d.UserID == userID })

	s.observe(labelUser, "clear")
	return n
}

func (s *Store) now() time.Time {
	return s.nowFn()
}

func (s *Store) observe(kind, op string) {
	if s.observer != nil {
		s.observer(kind, op)
	}
}

// newestSalesFirst orders daily sales by date descending, newest ID first on ties.
// Dates are ISO-8601 so string order matches calendar order.
func newestSalesFirst(a, b *models.DailySales) bool {
	if a.Date != b.Date {
		return a.Date > b.Date
	}
	return a.ID > b.ID
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
