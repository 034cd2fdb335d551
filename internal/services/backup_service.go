package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "hisaab/internal/errors"
	"hisaab/internal/metrics"
	"hisaab/internal/models"
	"hisaab/internal/objectstore"
	"hisaab/internal/store"
	"hisaab/internal/uuid"
)

const (
	snapshotVersion     = 1
	snapshotContentType = "application/json"
	backupKeyRoot       = "backups"
)

// Snapshot is the serialised form of everything a user owns.
type Snapshot struct {
	Version         int                     `json:"version"`
	CreatedAt       time.Time               `json:"created_at"`
	Username        string                  `json:"username"`
	CreditCards     []models.CreditCard     `json:"credit_cards"`
	DebitCards      []models.DebitCard      `json:"debit_cards"`
	BankAccounts    []models.BankAccount    `json:"bank_accounts"`
	Loans           []models.Loan           `json:"loans"`
	Repayments      []models.Repayment      `json:"repayments"`
	Passwords       []models.Password       `json:"passwords"`
	CustomerCredits []models.CustomerCredit `json:"customer_credits"`
	Expenses        []models.Expense        `json:"expenses"`
	DailySales      []models.DailySales     `json:"daily_sales"`
	Documents       []models.Document       `json:"documents"`
}

// Records returns the number of records in the snapshot.
func (s *Snapshot) Records() int {
	return len(s.CreditCards) + len(s.DebitCards) + len(s.BankAccounts) + len(s.Loans) +
		len(s.Repayments) + len(s.Passwords) + len(s.CustomerCredits) + len(s.Expenses) +
		len(s.DailySales) + len(s.Documents)
}

// BackupInfo describes one stored backup.
type BackupInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
	Records   int       `json:"records,omitempty"`
}

// RestoreSummary reports the outcome of a restore. Restores are not atomic:
// records that fail are skipped and counted.
type RestoreSummary struct {
	BackupID string `json:"backup_id"`
	Cleared  int    `json:"cleared"`
	Restored int    `json:"restored"`
	Failed   int    `json:"failed"`
}

// backupService snapshots a user's records into object storage.
type backupService struct {
	store     *store.Store
	objects   objectstore.ObjectStorage
	validate  RecordValidator
	retention int
	log       *zap.SugaredLogger
}

// NewBackupService creates a new BackupServicer. validate may be nil, in
// which case restored records are not re-validated. Only the newest retention
// backups are kept per email.
func NewBackupService(s *store.Store, objects objectstore.ObjectStorage, validate RecordValidator, retention int, log *zap.SugaredLogger) BackupServicer {
	if retention < 1 {
		retention = 1
	}
	return &backupService{
		store:     s,
		objects:   objects,
		validate:  validate,
		retention: retention,
		log:       log,
	}
}

// Link binds the backup email to the user.
func (s *backupService) Link(userID uint, email string) (*models.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email is required")
	}
	return s.store.SetDriveEmail(userID, email)
}

// Unlink removes the user's backup email. Existing backups are left in place.
func (s *backupService) Unlink(userID uint) (*models.User, error) {
	return s.store.SetDriveEmail(userID, "")
}

// CreateBackup uploads a snapshot of the user's records and prunes backups
// beyond the retention limit.
func (s *backupService) CreateBackup(ctx context.Context, userID uint) (*BackupInfo, error) {
	user, err := s.linkedUser(userID)
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshot(user)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	id := uuid.New()
	if err := s.objects.Upload(ctx, backupKey(user.DriveEmail, id), data, snapshotContentType); err != nil {
		metrics.BackupOperations.WithLabelValues("create", "error").Inc()
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	metrics.BackupOperations.WithLabelValues("create", "ok").Inc()

	s.prune(ctx, user.DriveEmail)

	return &BackupInfo{
		ID:        id,
		CreatedAt: snap.CreatedAt,
		Size:      int64(len(data)),
		Records:   snap.Records(),
	}, nil
}

// ListBackups returns the user's backups, newest first.
func (s *backupService) ListBackups(ctx context.Context, userID uint) ([]BackupInfo, error) {
	user, err := s.linkedUser(userID)
	if err != nil {
		return nil, err
	}

	objects, err := s.objects.List(ctx, backupPrefix(user.DriveEmail))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	backups := make([]BackupInfo, 0, len(objects))
	for i := len(objects) - 1; i >= 0; i-- {
		id, ok := backupIDFromKey(objects[i].Key)
		if !ok {
			continue
		}
		info := BackupInfo{ID: id, Size: objects[i].Size, CreatedAt: objects[i].LastModified}
		if created, err := uuid.Time(id); err == nil {
			info.CreatedAt = created
		}
		backups = append(backups, info)
	}
	return backups, nil
}

// RestoreBackup replaces the user's records with the backup's contents. The
// user's current records are cleared first; each backed-up record is then
// created anew with a fresh ID. Repayments are re-attached to the new IDs of
// their loans.
func (s *backupService) RestoreBackup(ctx context.Context, userID uint, backupID string) (*RestoreSummary, error) {
	user, err := s.linkedUser(userID)
	if err != nil {
		return nil, err
	}
	if !uuid.IsValid(backupID) {
		return nil, apperrors.ErrBackupNotFound
	}

	data, err := s.objects.Download(ctx, backupKey(user.DriveEmail, backupID))
	if err != nil {
		if errors.Is(err, objectstore.ErrObjectNotFound) {
			return nil, apperrors.ErrBackupNotFound
		}
		metrics.BackupOperations.WithLabelValues("restore", "error").Inc()
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBackupCorrupt, err)
	}
	if snap.Version != snapshotVersion {
		return nil, apperrors.WithMessage(apperrors.ErrBackupCorrupt,
			fmt.Sprintf("Unsupported backup version %d", snap.Version))
	}

	summary := &RestoreSummary{BackupID: backupID}
	summary.Cleared = s.store.ClearUserData(user.ID)

	r := &replay{svc: s, userID: user.ID, summary: summary}
	replayAll(r, "credit_card", snap.CreditCards, s.store.CreditCards.Create)
	replayAll(r, "debit_card", snap.DebitCards, s.store.DebitCards.Create)
	replayAll(r, "bank_account", snap.BankAccounts, s.store.BankAccounts.Create)
	replayAll(r, "password", snap.Passwords, s.store.Passwords.Create)
	replayAll(r, "customer_credit", snap.CustomerCredits, s.store.CustomerCredits.Create)
	replayAll(r, "expense", snap.Expenses, s.store.Expenses.Create)
	replayAll(r, "daily_sales", snap.DailySales, s.store.DailySales.Create)
	replayAll(r, "document", snap.Documents, s.store.Documents.Create)

	loanIDs := make(map[uint]uint, len(snap.Loans))
	for _, loan := range snap.Loans {
		oldID := loan.ID
		if !r.valid("loan", oldID, loan) {
			continue
		}
		created := s.store.CreateLoan(user.ID, loan)
		loanIDs[oldID] = created.ID
		summary.Restored++
	}

	for _, rep := range snap.Repayments {
		newLoanID, ok := loanIDs[rep.LoanID]
		if !ok {
			r.fail("repayment", rep.ID, errors.New("parent loan was not restored"))
			continue
		}
		if !r.valid("repayment", rep.ID, rep) {
			continue
		}
		if _, err := s.store.CreateRepayment(user.ID, newLoanID, rep); err != nil {
			r.fail("repayment", rep.ID, err)
			continue
		}
		summary.Restored++
	}

	metrics.BackupOperations.WithLabelValues("restore", "ok").Inc()
	metrics.RestoredRecords.WithLabelValues("restored").Add(float64(summary.Restored))
	metrics.RestoredRecords.WithLabelValues("failed").Add(float64(summary.Failed))
	s.log.Infow("backup restored",
		"user_id", user.ID,
		"backup_id", backupID,
		"cleared", summary.Cleared,
		"restored", summary.Restored,
		"failed", summary.Failed,
	)
	return summary, nil
}

// DeleteBackup removes one of the user's backups.
func (s *backupService) DeleteBackup(ctx context.Context, userID uint, backupID string) error {
	user, err := s.linkedUser(userID)
	if err != nil {
		return err
	}
	if !uuid.IsValid(backupID) {
		return apperrors.ErrBackupNotFound
	}

	if err := s.objects.Delete(ctx, backupKey(user.DriveEmail, backupID)); err != nil {
		if errors.Is(err, objectstore.ErrObjectNotFound) {
			return apperrors.ErrBackupNotFound
		}
		metrics.BackupOperations.WithLabelValues("delete", "error").Inc()
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	metrics.BackupOperations.WithLabelValues("delete", "ok").Inc()
	return nil
}

func (s *backupService) linkedUser(userID uint) (*models.User, error) {
	user, err := s.store.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if user.DriveEmail == "" {
		return nil, apperrors.ErrBackupNotLinked
	}
	return user, nil
}

func (s *backupService) snapshot(user *models.User) (*Snapshot, error) {
	snap := &Snapshot{
		Version:         snapshotVersion,
		CreatedAt:       time.Now().UTC(),
		Username:        user.Username,
		CreditCards:     s.store.CreditCards.List(user.ID),
		DebitCards:      s.store.DebitCards.List(user.ID),
		BankAccounts:    s.store.BankAccounts.List(user.ID),
		Loans:           s.store.ListLoans(user.ID),
		Passwords:       s.store.Passwords.List(user.ID),
		CustomerCredits: s.store.CustomerCredits.List(user.ID),
		Expenses:        s.store.Expenses.List(user.ID),
		DailySales:      s.store.DailySales.List(user.ID),
		Documents:       s.store.Documents.List(user.ID),
		Repayments:      []models.Repayment{},
	}

	for _, loan := range snap.Loans {
		snap.Repayments = append(snap.Repayments, s.store.ListRepayments(user.ID, loan.ID)...)
	}
	return snap, nil
}

// prune deletes the oldest backups beyond the retention limit. Failures are
// logged; the new backup has already been stored.
func (s *backupService) prune(ctx context.Context, email string) {
	objects, err := s.objects.List(ctx, backupPrefix(email))
	if err != nil {
		s.log.Warnw("failed to list backups for pruning", "email", email, "error", err)
		return
	}
	if len(objects) <= s.retention {
		return
	}
	for _, obj := range objects[:len(objects)-s.retention] {
		if err := s.objects.Delete(ctx, obj.Key); err != nil && !errors.Is(err, objectstore.ErrObjectNotFound) {
			s.log.Warnw("failed to prune backup", "key", obj.Key, "error", err)
		}
	}
}

// replay tracks per-record outcomes during a restore.
type replay struct {
	svc     *backupService
	userID  uint
	summary *RestoreSummary
}

func (r *replay) valid(kind string, id uint, rec any) bool {
	if r.svc.validate == nil {
		return true
	}
	if err := r.svc.validate.ValidateStruct(rec); err != nil {
		r.fail(kind, id, err)
		return false
	}
	return true
}

func (r *replay) fail(kind string, id uint, err error) {
	r.summary.Failed++
	r.svc.log.Warnw("skipping record during restore",
		"user_id", r.userID,
		"kind", kind,
		"backup_record_id", id,
		"error", err,
	)
}

// replayAll validates and creates each record under the restoring user.
func replayAll[T any, P interface {
	*T
	GetID() uint
}](r *replay, kind string, records []T, create func(owner uint, rec T) *T) {
	for i := range records {
		id := P(&records[i]).GetID()
		if !r.valid(kind, id, records[i]) {
			continue
		}
		create(r.userID, records[i])
		r.summary.Restored++
	}
}

func backupPrefix(email string) string {
	return path.Join(backupKeyRoot, strings.ToLower(email)) + "/"
}

func backupKey(email, id string) string {
	return backupPrefix(email) + id + ".json"
}

func backupIDFromKey(key string) (string, bool) {
	name := path.Base(key)
	id, ok := strings.CutSuffix(name, ".json")
	if !ok || !uuid.IsValid(id) {
		return "", false
	}
	return id, true
}
