// services/activity.go
package services

import (
	"log/slog"
	"time"

	"startech-backend/models"

	"gorm.io/gorm"
)

// ActivityLogger records business actions in the activity_logs table.
// Writes are asynchronous and failures are swallowed so that logging can
// never block or fail a request.
type ActivityLogger struct {
	db *gorm.DB
}

func NewActivityLogger(db *gorm.DB) *ActivityLogger {
	return &ActivityLogger{db: db}
}

func (a *ActivityLogger) Record(userName, action, entityType, entityID, details string) {
	entry := models.ActivityLog{
		UserName:   userName,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		CreatedAt:  time.Now(),
	}
	go func() {
		if err := a.db.Create(&entry).Error; err != nil {
			slog.Warn("activity log write failed", "action", action, "entity", entityID, "error", err)
		}
	}()
}
