package store

import "hisaab/internal/models"

// MarkCustomerCreditPaid sets the credit's status to paid and stamps PaidDate.
// Repeated calls succeed and stamp a new PaidDate.
func (s *Store) MarkCustomerCreditPaid(userID, creditID uint) (*models.CustomerCredit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	return s.CustomerCredits.modify(userID, creditID, "paid", func(c *models.CustomerCredit) {
		c.Status = models.CreditStatusPaid
		c.PaidDate = &now
	})
}
