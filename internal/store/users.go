package store

import (
	"strings"

	apperrors "hisaab/internal/errors"
	"hisaab/internal/models"
)

// CreateUser adds a user. Usernames are unique regardless of case.
func (s *Store) CreateUser(username, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.userByUsername(username); ok {
		return nil, apperrors.ErrDuplicateUsername
	}

	u := models.User{
		ID:        s.ids.Next(labelUser),
		Username:  username,
		Password:  passwordHash,
		CreatedAt: s.now(),
	}
	s.users[u.ID] = u
	s.observe(labelUser, "create")
	return &u, nil
}

// GetUser returns the user with the given ID.
func (s *Store) GetUser(userID uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

// GetUserByUsername looks a user up by username, ignoring case.
func (s *Store) GetUserByUsername(username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.userByUsername(username)
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

// GetUserByDriveEmail returns the user the backup email is linked to.
func (s *Store) GetUserByDriveEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.userByDriveEmail(email)
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

// SetDriveEmail links a backup email to the user, or unlinks it when email is
// empty. An email already linked to a different user is rejected.
func (s *Store) SetDriveEmail(userID uint, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" {
		if other, found := s.userByDriveEmail(email); found && other.ID != userID {
			return nil, apperrors.ErrDriveEmailInUse
		}
	}

	u.DriveEmail = email
	s.users[userID] = u
	s.observe(labelUser, "drive_email")
	return &u, nil
}

// SetBiometric toggles biometric unlock for the user.
func (s *Store) SetBiometric(userID uint, enabled bool) (*models.User, error) {
	return s.updateUser(userID, "biometric", func(u *models.User) {
		u.BiometricEnabled = enabled
	})
}

// UpdateUserLogin applies fn to the user's login bookkeeping fields
// (failed attempts, lockout, last login).
func (s *Store) UpdateUserLogin(userID uint, fn func(u *models.User)) (*models.User, error) {
	return s.updateUser(userID, "login", fn)
}

func (s *Store) updateUser(userID uint, op string, fn func(u *models.User)) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	fn(&u)
	s.users[userID] = u
	s.observe(labelUser, op)
	return &u, nil
}

func (s *Store) userByUsername(username string) (models.User, bool) {
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *Store) userByDriveEmail(email string) (models.User, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return models.User{}, false
	}
	for _, u := range s.users {
		if u.DriveEmail == email {
			return u, true
		}
	}
	return models.User{}, false
}
