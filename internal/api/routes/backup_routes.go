package routes

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/zendpb/HabitTracker/internal/api/handlers"
)

type BackupRoutes struct {
	handler *handlers.BackupHandler
}

func NewBackupRoutes(handler *handlers.BackupHandler) *BackupRoutes {
	return &BackupRoutes{handler: handler}
}

// RegisterRoutes registers backup export and restore routes
func (b *BackupRoutes) RegisterRoutes(router *gin.Engine) {
	backup := router.Group("/api/backup")

	backup.GET("/export", gzip.Gzip(gzip.DefaultCompression), b.handler.ExportBackup)
	backup.POST("/import", b.handler.ImportBackup)
}
