package services

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "hisaab/internal/errors"
	"hisaab/internal/models"
	"hisaab/internal/store"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
)

// userService handles user-related business logic.
type userService struct {
	store *store.Store
	cost  int
}

// NewUserService creates a new UserServicer.
func NewUserService(s *store.Store) UserServicer {
	return &userService{store: s, cost: bcrypt.DefaultCost}
}

// newUserServiceWithCost lets tests hash with bcrypt.MinCost.
func newUserServiceWithCost(s *store.Store, cost int) *userService {
	return &userService{store: s, cost: cost}
}

// CreateUser registers a new user
func (s *userService) CreateUser(username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username and password are required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.store.CreateUser(username, string(hashedPassword))
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id uint) (*models.User, error) {
	return s.store.GetUser(id)
}

// GetUserByUsername retrieves a user by username, ignoring case
func (s *userService) GetUserByUsername(username string) (*models.User, error) {
	return s.store.GetUserByUsername(strings.TrimSpace(username))
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

// AttemptLogin checks the credentials and maintains the lockout counters.
// Unknown usernames and wrong passwords return the same error. After
// maxFailedLoginAttempts consecutive failures the account is locked for
// lockoutDuration.
func (s *userService) AttemptLogin(username, password string) (*models.User, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now()
	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		return nil, apperrors.ErrAccountLocked
	}

	if !s.VerifyPassword(user, password) {
		if _, err := s.store.UpdateUserLogin(user.ID, func(u *models.User) {
			if u.LockedUntil != nil {
				// The previous lock has expired; start counting again.
				u.LockedUntil = nil
				u.FailedLoginAttempts = 0
			}
			u.FailedLoginAttempts++
			if u.FailedLoginAttempts >= maxFailedLoginAttempts {
				until := now.Add(lockoutDuration)
				u.LockedUntil = &until
			}
		}); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.store.UpdateUserLogin(user.ID, func(u *models.User) {
		u.FailedLoginAttempts = 0
		u.LockedUntil = nil
		u.LastLoginAt = &now
	})
}

// SetBiometric toggles biometric unlock.
func (s *userService) SetBiometric(userID uint, enabled bool) (*models.User, error) {
	return s.store.SetBiometric(userID, enabled)
}

// ClearData removes every record the user owns and returns how many were removed.
func (s *userService) ClearData(userID uint) int {
	return s.store.ClearUserData(userID)
}
