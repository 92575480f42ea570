package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zendpb/HabitTracker/internal/api/dto"
	"github.com/zendpb/HabitTracker/internal/domain/backup"
)

// BackupHandler handles HTTP requests for backup export and restore
type BackupHandler struct {
	service backup.Service
}

// NewBackupHandler creates a new BackupHandler instance
func NewBackupHandler(service backup.Service) *BackupHandler {
	return &BackupHandler{service: service}
}

// ExportBackup godoc
// @Summary Export a backup
// @Description Download a JSON document with every habit and ledger entry
// @Tags backup
// @Produce json
// @Success 200 {file} file "Backup document"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/backup/export [get]
func (h *BackupHandler) ExportBackup(c *gin.Context) {
	filename := fmt.Sprintf("habits-backup-%s.json", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.service.Export(c.Request.Context(), c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// ImportBackup godoc
// @Summary Restore a backup
// @Description Restore habits and ledger entries from an uploaded backup document
// @Tags backup
// @Accept json
// @Produce json
// @Success 200 {object} dto.ImportResultResponse "Backup restored successfully"
// @Failure 400 {object} map[string]string "Malformed backup document"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/backup/import [post]
func (h *BackupHandler) ImportBackup(c *gin.Context) {
	doc, err := h.service.Import(c.Request.Context(), c.Request.Body)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, backup.ErrMalformedBackup) {
			statusCode = http.StatusBadRequest
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.ImportResultResponse{
		Habits:      len(doc.Habits),
		Completions: len(doc.Completions),
	}})
}
