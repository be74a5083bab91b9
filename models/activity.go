package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	UserName   string    `gorm:"index"`
	Action     string    `gorm:"not null"` // e.g. "create", "update", "delete", "status-change"
	EntityType string    `gorm:"index"`
	EntityID   string    `gorm:"index"`
	Details    string
	CreatedAt  time.Time
}

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
