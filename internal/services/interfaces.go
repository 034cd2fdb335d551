package services

import (
	"context"

	"hisaab/internal/models"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(username, password string) (*models.User, error)
	SetBiometric(userID uint, enabled bool) (*models.User, error)
	ClearData(userID uint) int
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}

// BackupServicer defines the contract for backing up and restoring a user's
// records to object storage under their linked backup email.
type BackupServicer interface {
	Link(userID uint, email string) (*models.User, error)
	Unlink(userID uint) (*models.User, error)
	CreateBackup(ctx context.Context, userID uint) (*BackupInfo, error)
	ListBackups(ctx context.Context, userID uint) ([]BackupInfo, error)
	RestoreBackup(ctx context.Context, userID uint, backupID string) (*RestoreSummary, error)
	DeleteBackup(ctx context.Context, userID uint, backupID string) error
}

// RecordValidator checks a decoded record against its binding rules.
// gin's binding.Validator satisfies it.
type RecordValidator interface {
	ValidateStruct(obj any) error
}
