package models

import "time"

// User represents a registered user. Users are never deleted; clearing a
// user's data removes the records they own and keeps this row.
type User struct {
	ID                  uint       `json:"id"`
	Username            string     `json:"username"`
	Password            string     `json:"-"`
	DriveEmail          string     `json:"drive_email,omitempty"`
	BiometricEnabled    bool       `json:"biometric_enabled"`
	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}
