package store

import (
	apperrors "hisaab/internal/errors"
	"hisaab/internal/models"
)

// ListLoans returns the user's loans in creation order.
func (s *Store) ListLoans(userID uint) []models.Loan {
	return s.loans.List(userID)
}

// GetLoan returns one of the user's loans.
func (s *Store) GetLoan(userID, loanID uint) (*models.Loan, error) {
	return s.loans.Get(userID, loanID)
}

// CreateLoan stores a new loan. Status defaults to active and CreatedAt to now.
func (s *Store) CreateLoan(userID uint, loan models.Loan) *models.Loan {
	return s.loans.Create(userID, loan)
}

// UpdateLoan merges patch into the loan. Unlike other kinds, loans are
// updated field by field rather than replaced.
func (s *Store) UpdateLoan(userID, loanID uint, patch models.LoanPatch) (*models.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loans.modify(userID, loanID, "update", func(l *models.Loan) {
		patch.Apply(l)
	})
}

// DeleteLoan removes the loan and all of its repayments.
func (s *Store) DeleteLoan(userID, loanID uint) error {
	return s.loans.Delete(userID, loanID)
}

// CompleteLoan marks the loan completed and stamps CompletedAt. Calling it on
// an already completed loan succeeds and stamps a new CompletedAt.
func (s *Store) CompleteLoan(userID, loanID uint) (*models.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	return s.loans.modify(userID, loanID, "complete", func(l *models.Loan) {
		l.Status = models.LoanStatusCompleted
		l.CompletedAt = &now
	})
}

// ListRepayments returns the repayments of one of the user's loans, oldest
// first. A loan that is missing or belongs to someone else yields an empty list.
func (s *Store) ListRepayments(userID, loanID uint) []models.Repayment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.loans.lookup(userID, loanID); err != nil {
		return []models.Repayment{}
	}
	return s.repayments.list(loanID)
}

// CreateRepayment records a repayment against one of the user's loans.
// Date defaults to now.
func (s *Store) CreateRepayment(userID, loanID uint, r models.Repayment) (*models.Repayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.loans.lookup(userID, loanID); err != nil {
		return nil, err
	}
	out := s.repayments.create(loanID, r)
	return &out, nil
}

// GetRepayment returns a repayment if its parent loan belongs to the user.
func (s *Store) GetRepayment(userID, repaymentID uint) (*models.Repayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := s.ownedRepayment(userID, repaymentID)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteRepayment removes a repayment if its parent loan belongs to the user.
func (s *Store) DeleteRepayment(userID, repaymentID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.ownedRepayment(userID, repaymentID)
	if err != nil {
		return err
	}
	s.repayments.remove(&r)
	return nil
}

// ownedRepayment authorises a repayment through its parent loan's owner.
func (s *Store) ownedRepayment(userID, repaymentID uint) (models.Repayment, error) {
	r, ok := s.repayments.rows[repaymentID]
	if !ok {
		return models.Repayment{}, apperrors.ErrRepaymentNotFound
	}
	if _, err := s.loans.lookup(userID, r.LoanID); err != nil {
		return models.Repayment{}, apperrors.ErrRepaymentNotFound
	}
	return r, nil
}
