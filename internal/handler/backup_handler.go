package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/middleware"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/service"
	"github.com/labstack/echo/v4"
)

// BackupHandler handles backup-related HTTP requests
type BackupHandler struct {
	backupService *service.BackupService
}

// NewBackupHandler creates a new BackupHandler
func NewBackupHandler(backupService *service.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// BackupResponse describes a stored snapshot
type BackupResponse struct {
	Key         string `json:"key"`
	DownloadURL string `json:"downloadUrl"`
	CreatedAt   string `json:"createdAt"`
	Size        int64  `json:"size"`
}

// CreateBackup godoc
// @Summary Back up transactions and budgets
// @Description Uploads a JSON snapshot to object storage and returns a download link valid for 15 minutes
// @Tags backups
// @Produce json
// @Security BearerAuth
// @Success 201 {object} BackupResponse
// @Failure 503 {object} ProblemDetails
// @Router /backups [post]
func (h *BackupHandler) CreateBackup(c echo.Context) error {
	backup, err := h.backupService.CreateBackup(c.Request().Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err, "Failed to create backup")
	}

	return c.JSON(http.StatusCreated, BackupResponse{
		Key:         backup.Key,
		DownloadURL: backup.DownloadURL,
		CreatedAt:   backup.CreatedAt.Format(time.RFC3339),
		Size:        backup.Size,
	})
}
