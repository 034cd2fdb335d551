package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "hisaab/internal/errors"
	"hisaab/internal/models"
)

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	s, _ := newTestStore(t)
	newUser(t, s, "Asha")

	_, err := s.CreateUser("asha", "other")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateUsername)
}

func TestUsersHaveTheirOwnCounter(t *testing.T) {
	s, _ := newTestStore(t)
	first := newUser(t, s, "first")
	s.Passwords.Create(first.ID, models.Password{})
	s.Passwords.Create(first.ID, models.Password{})

	second := newUser(t, s, "second")
	assert.Equal(t, uint(1), first.ID)
	assert.Equal(t, uint(2), second.ID)
}

func TestGetUserByUsername(t *testing.T) {
	s, _ := newTestStore(t)
	u := newUser(t, s, "Vikram")

	got, err := s.GetUserByUsername("VIKRAM")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.GetUserByUsername("nobody")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestSetDriveEmail(t *testing.T) {
	s, _ := newTestStore(t)
	alice := newUser(t, s, "alice")
	bob := newUser(t, s, "bob")

	linked, err := s.SetDriveEmail(alice.ID, " Alice@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", linked.DriveEmail)

	t.Run("same_user_again", func(t *testing.T) {
		_, err := s.SetDriveEmail(alice.ID, "alice@example.com")
		assert.NoError(t, err)
	})

	t.Run("other_user_rejected", func(t *testing.T) {
		_, err := s.SetDriveEmail(bob.ID, "ALICE@example.com")
		assert.ErrorIs(t, err, apperrors.ErrDriveEmailInUse)

		got, err := s.GetUser(bob.ID)
		require.NoError(t, err)
		assert.Empty(t, got.DriveEmail)
	})

	t.Run("lookup", func(t *testing.T) {
		got, err := s.GetUserByDriveEmail("alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)
	})

	t.Run("unlink_frees_email", func(t *testing.T) {
		_, err := s.SetDriveEmail(alice.ID, "")
		require.NoError(t, err)

		_, err = s.SetDriveEmail(bob.ID, "alice@example.com")
		assert.NoError(t, err)
	})

	t.Run("unknown_user", func(t *testing.T) {
		_, err := s.SetDriveEmail(999, "x@example.com")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestSetBiometric(t *testing.T) {
	s, _ := newTestStore(t)
	u := newUser(t, s, "alice")

	got, err := s.SetBiometric(u.ID, true)
	require.NoError(t, err)
	assert.True(t, got.BiometricEnabled)
}

func TestClearUserData(t *testing.T) {
	s, _ := newTestStore(t)
	alice := newUser(t, s, "alice")
	bob := newUser(t, s, "bob")

	populate := func(owner uint) uint {
		s.CreditCards.Create(owner, models.CreditCard{})
		s.DebitCards.Create(owner, models.DebitCard{})
		s.BankAccounts.Create(owner, models.BankAccount{})
		s.Passwords.Create(owner, models.Password{})
		s.CustomerCredits.Create(owner, models.CustomerCredit{})
		s.Expenses.Create(owner, models.Expense{})
		s.DailySales.Create(owner, models.DailySales{Date: "2024-02-02"})
		s.Documents.Create(owner, models.Document{})
		loan := s.CreateLoan(owner, models.Loan{PersonName: "x", Amount: dec(10)})
		_, err := s.CreateRepayment(owner, loan.ID, models.Repayment{Amount: dec(1)})
		require.NoError(t, err)
		return loan.ID
	}
	aliceLoan := populate(alice.ID)
	bobLoan := populate(bob.ID)

	removed := s.ClearUserData(alice.ID)
	assert.Equal(t, 10, removed)

	assert.Empty(t, s.CreditCards.List(alice.ID))
	assert.Empty(t, s.DebitCards.List(alice.ID))
	assert.Empty(t, s.BankAccounts.List(alice.ID))
	assert.Empty(t, s.Passwords.List(alice.ID))
	assert.Empty(t, s.CustomerCredits.List(alice.ID))
	assert.Empty(t, s.Expenses.List(alice.ID))
	assert.Empty(t, s.DailySales.List(alice.ID))
	assert.Empty(t, s.Documents.List(alice.ID))
	assert.Empty(t, s.ListLoans(alice.ID))
	assert.Empty(t, s.repayments.list(aliceLoan))

	// The user row survives.
	got, err := s.GetUser(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	// Other users are untouched.
	assert.Len(t, s.CreditCards.List(bob.ID), 1)
	assert.Len(t, s.ListLoans(bob.ID), 1)
	assert.Len(t, s.ListRepayments(bob.ID, bobLoan), 1)
}

func TestResetClearsEverything(t *testing.T) {
	s, _ := newTestStore(t)
	u := newUser(t, s, "alice")
	s.Passwords.Create(u.ID, models.Password{})

	s.Reset()

	_, err := s.GetUser(u.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	again := newUser(t, s, "alice")
	assert.Equal(t, uint(1), again.ID)
	assert.Equal(t, uint(1), s.Passwords.Create(again.ID, models.Password{}).ID)
}

func TestObserverSeesMutations(t *testing.T) {
	var ops []string
	s := New(WithObserver(func(kind, op string) { ops = append(ops, kind+":"+op) }))
	u, err := s.CreateUser("alice", "hash")
	require.NoError(t, err)

	loan := s.CreateLoan(u.ID, models.Loan{Amount: dec(1)})
	_, err = s.CreateRepayment(u.ID, loan.ID, models.Repayment{Amount: dec(1)})
	require.NoError(t, err)
	require.NoError(t, s.DeleteLoan(u.ID, loan.ID))

	assert.Equal(t, []string{
		"user:create",
		"loan:create",
		"repayment:create",
		"loan:delete",
		"repayment:cascade",
	}, ops)
}
