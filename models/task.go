package models

import "time"

// Task is keyed by its code, e.g. "TSK-2024-003".
type Task struct {
	ID string `gorm:"primary_key"`

	Title       string `gorm:"not null"`
	Description string
	Status      string `gorm:"type:varchar(30);not null;default:'todo'"`
	Priority    string `gorm:"type:varchar(20);default:'medium'"`
	AssignedTo  string `gorm:"index"`
	CreatedBy   string `gorm:"index"`

	DueDate     *time.Time
	CompletedAt *time.Time

	// Stored as a JSON-encoded array inside the row.
	Comments CommentList `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type TaskHistory struct {
	ID        uint   `gorm:"primaryKey"`
	TaskID    string `gorm:"index;not null"`
	OldStatus string
	NewStatus string
	ChangedBy string
	CreatedAt time.Time
}
