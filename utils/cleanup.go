package utils

import (
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/hyeonsu-lee/goboard/config"
	"github.com/hyeonsu-lee/goboard/models"
)

// StartUploadCleaner launches a background goroutine that periodically
// reclaims orphan uploads (files uploaded but never attached to a
// post). It is best-effort and logs failures.
func StartUploadCleaner(interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		for {
			// Sleep first to avoid racing immediately at startup
			time.Sleep(interval)
			if db := config.DB(); db != nil {
				cleanExpiredUploads(db)
			}
		}
	}()
}

// cleanExpiredUploads performs one sweep: rows whose ExpireAt has
// passed are removed together with their files. Rows still inside
// their TTL are never touched.
func cleanExpiredUploads(db *gorm.DB) {
	var items []models.UploadedFile
	if err := db.Where("expire_at <= ?", time.Now()).Limit(100).Find(&items).Error; err != nil {
		if Sugar != nil {
			Sugar.Warnf("upload cleaner query failed: %v", err)
		}
		return
	}
	for _, it := range items {
		if it.FilePath != "" {
			_ = os.Remove(it.FilePath)
		}
		// Remove row regardless of file deletion outcome
		if err := db.Delete(&models.UploadedFile{}, it.ID).Error; err != nil {
			if Sugar != nil {
				Sugar.Warnf("upload cleaner delete row failed: %v", err)
			}
		}
	}
}
