package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "hisaab/internal/errors"
	"hisaab/internal/models"
	"hisaab/internal/services"
)

type mockBackupService struct {
	linkFn    func(userID uint, email string) (*models.User, error)
	createFn  func(userID uint) (*services.BackupInfo, error)
	listFn    func(userID uint) ([]services.BackupInfo, error)
	restoreFn func(userID uint, backupID string) (*services.RestoreSummary, error)
	deleteFn  func(userID uint, backupID string) error
}

func (m *mockBackupService) Link(userID uint, email string) (*models.User, error) {
	if m.linkFn != nil {
		return m.linkFn(userID, email)
	}
	return &models.User{ID: userID, DriveEmail: email}, nil
}

func (m *mockBackupService) Unlink(userID uint) (*models.User, error) {
	return &models.User{ID: userID}, nil
}

func (m *mockBackupService) CreateBackup(_ context.Context, userID uint) (*services.BackupInfo, error) {
	if m.createFn != nil {
		return m.createFn(userID)
	}
	return &services.BackupInfo{}, nil
}

func (m *mockBackupService) ListBackups(_ context.Context, userID uint) ([]services.BackupInfo, error) {
	if m.listFn != nil {
		return m.listFn(userID)
	}
	return []services.BackupInfo{}, nil
}

func (m *mockBackupService) RestoreBackup(_ context.Context, userID uint, backupID string) (*services.RestoreSummary, error) {
	if m.restoreFn != nil {
		return m.restoreFn(userID, backupID)
	}
	return &services.RestoreSummary{BackupID: backupID}, nil
}

func (m *mockBackupService) DeleteBackup(_ context.Context, userID uint, backupID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, backupID)
	}
	return nil
}

func setupBackupRouter(svc services.BackupServicer) *gin.Engine {
	r := gin.New()
	NewBackupHandler(svc, &mockAuditService{}).Routes(r.Group("", injectUserID(5)))
	return r
}

func TestBackupHandler_Link(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		linkErr    error
		wantStatus int
		wantCode   string
	}{
		{name: "success", body: `{"email":"meera@example.com"}`, wantStatus: http.StatusOK},
		{name: "invalid_email", body: `{"email":"not-an-email"}`, wantStatus: http.StatusBadRequest, wantCode: "INVALID_INPUT"},
		{name: "taken", body: `{"email":"meera@example.com"}`, linkErr: apperrors.ErrDriveEmailInUse, wantStatus: http.StatusConflict, wantCode: "DRIVE_EMAIL_IN_USE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBackupService{
				linkFn: func(userID uint, email string) (*models.User, error) {
					if tt.linkErr != nil {
						return nil, tt.linkErr
					}
					return &models.User{ID: userID, DriveEmail: email}, nil
				},
			}
			rec := doRequest(setupBackupRouter(svc), http.MethodPut, "/backup/link", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantCode != "" {
				assertErrorCode(t, parseJSON(t, rec), tt.wantCode)
			}
		})
	}
}

func TestBackupHandler_CreateAndList(t *testing.T) {
	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc := &mockBackupService{
		createFn: func(uint) (*services.BackupInfo, error) {
			return &services.BackupInfo{ID: "0190d1c2-0000-7000-8000-000000000001", CreatedAt: created, Size: 120, Records: 4}, nil
		},
		listFn: func(uint) ([]services.BackupInfo, error) {
			return nil, apperrors.ErrBackupNotLinked
		},
	}
	r := setupBackupRouter(svc)

	rec := doRequest(r, http.MethodPost, "/backup", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	backup, _ := parseJSON(t, rec)["backup"].(map[string]interface{})
	if backup["records"] != float64(4) {
		t.Errorf("expected 4 records, got %v", backup)
	}

	rec = doRequest(r, http.MethodGet, "/backup", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "BACKUP_NOT_LINKED")
}

func TestBackupHandler_RestoreAndDelete(t *testing.T) {
	var restoredID string
	svc := &mockBackupService{
		restoreFn: func(_ uint, backupID string) (*services.RestoreSummary, error) {
			restoredID = backupID
			return &services.RestoreSummary{BackupID: backupID, Cleared: 3, Restored: 7, Failed: 1}, nil
		},
		deleteFn: func(uint, string) error {
			return apperrors.ErrBackupNotFound
		},
	}
	r := setupBackupRouter(svc)

	rec := doRequest(r, http.MethodPost, "/backup/abc/restore", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if restoredID != "abc" {
		t.Errorf("expected backup id from path, got %q", restoredID)
	}
	summary, _ := parseJSON(t, rec)["restore"].(map[string]interface{})
	if summary["restored"] != float64(7) || summary["failed"] != float64(1) {
		t.Errorf("unexpected summary: %v", summary)
	}

	rec = doRequest(r, http.MethodDelete, "/backup/abc", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "BACKUP_NOT_FOUND")
}
