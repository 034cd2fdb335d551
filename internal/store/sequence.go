package store

// Identifier labels. Each label has its own counter.
const (
	labelUser           = "user"
	labelCreditCard     = "credit_card"
	labelDebitCard      = "debit_card"
	labelBankAccount    = "account"
	labelLoan           = "loan"
	labelRepayment      = "repayment"
	labelPassword       = "password"
	labelCustomerCredit = "credit"
	labelDailySales     = "sales"
	labelExpense        = "expense"
	labelDocument       = "document"
)

// Sequence hands out monotonically increasing identifiers per label.
// Identifiers start at 1 and are never reused. It is not safe for concurrent
// use on its own; the Store lock guards it.
type Sequence struct {
	next map[string]uint
}

// NewSequence returns a Sequence with every label starting at 1.
func NewSequence() *Sequence {
	return &Sequence{next: make(map[string]uint)}
}

// Next returns the current value for label and advances it.
func (s *Sequence) Next(label string) uint {
	id, ok := s.next[label]
	if !ok {
		id = 1
	}
	s.next[label] = id + 1
	return id
}

// Reset puts every label back to 1.
func (s *Sequence) Reset() {
	clear(s.next)
}
