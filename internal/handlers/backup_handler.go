package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hisaab/internal/services"
)

// BackupHandler handles backup linking, creation and restore.
type BackupHandler struct {
	backupService services.BackupServicer
	auditService  services.AuditServicer
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(backupService services.BackupServicer, auditService services.AuditServicer) *BackupHandler {
	return &BackupHandler{backupService: backupService, auditService: auditService}
}

// LinkBackupRequest represents the request payload for linking a backup email
type LinkBackupRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

// Routes mounts the backup endpoints on group.
func (h *BackupHandler) Routes(group *gin.RouterGroup) {
	backup := group.Group("/backup")
	backup.PUT("/link", h.Link)
	backup.DELETE("/link", h.Unlink)
	backup.POST("", h.Create)
	backup.GET("", h.List)
	backup.POST("/:key/restore", h.Restore)
	backup.DELETE("/:key", h.Delete)
}

// Link binds a backup email to the user
// @Summary     Link backup email
// @Description Bind the email whose storage area receives this user's backups. An email can be linked to one user only.
// @Tags        backup
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body LinkBackupRequest true "Backup email"
// @Success     200 {object} UserResponse "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email linked to another user"
// @Router      /backup/link [put]
func (h *BackupHandler) Link(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req LinkBackupRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.backupService.Link(userID, req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "LINK_BACKUP", "user", userID, c.ClientIP(),
		map[string]interface{}{"email": user.DriveEmail})
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

// Unlink removes the user's backup email
// @Summary     Unlink backup email
// @Tags        backup
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse "Updated profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /backup/link [delete]
func (h *BackupHandler) Unlink(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.backupService.Unlink(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UNLINK_BACKUP", "user", userID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

// Create snapshots the user's records
// @Summary     Create a backup
// @Tags        backup
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} services.BackupInfo "Backup created"
// @Failure     400 {object} ErrorResponse "No backup email linked"
// @Failure     500 {object} ErrorResponse "Storage error"
// @Router      /backup [post]
func (h *BackupHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	info, err := h.backupService.CreateBackup(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BACKUP", "backup", 0, c.ClientIP(),
		map[string]interface{}{"backup_id": info.ID, "records": info.Records})
	c.JSON(http.StatusCreated, gin.H{"backup": info})
}

// List returns the user's backups
// @Summary     List backups
// @Description List backups for the linked email, newest first
// @Tags        backup
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "data: list of backups"
// @Failure     400 {object} ErrorResponse "No backup email linked"
// @Router      /backup [get]
func (h *BackupHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	backups, err := h.backupService.ListBackups(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": backups})
}

// Restore replaces the user's records with a backup
// @Summary     Restore a backup
// @Description Clear the user's records and recreate them from the backup. Records that fail validation are skipped and counted.
// @Tags        backup
// @Produce     json
// @Security    BearerAuth
// @Param       key path string true "Backup ID"
// @Success     200 {object} services.RestoreSummary "Restore summary"
// @Failure     400 {object} ErrorResponse "No backup email linked"
// @Failure     404 {object} ErrorResponse "Backup not found"
// @Failure     422 {object} ErrorResponse "Backup unreadable"
// @Router      /backup/{key}/restore [post]
func (h *BackupHandler) Restore(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.backupService.RestoreBackup(c.Request.Context(), userID, c.Param("key"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "RESTORE_BACKUP", "backup", 0, c.ClientIP(),
		map[string]interface{}{
			"backup_id": summary.BackupID,
			"restored":  summary.Restored,
			"failed":    summary.Failed,
		})
	c.JSON(http.StatusOK, gin.H{"restore": summary})
}

// Delete removes a backup
// @Summary     Delete a backup
// @Tags        backup
// @Produce     json
// @Security    BearerAuth
// @Param       key path string true "Backup ID"
// @Success     200 {object} MessageResponse "Deleted"
// @Failure     404 {object} ErrorResponse "Backup not found"
// @Router      /backup/{key} [delete]
func (h *BackupHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	key := c.Param("key")
	if err := h.backupService.DeleteBackup(c.Request.Context(), userID, key); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BACKUP", "backup", 0, c.ClientIP(),
		map[string]interface{}{"backup_id": key})
	c.JSON(http.StatusOK, gin.H{"message": "Backup deleted"})
}
