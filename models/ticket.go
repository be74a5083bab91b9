package models

import "time"

// Ticket is keyed by its code, e.g. "TIK-2024-001".
type Ticket struct {
	ID string `gorm:"primary_key"`

	Subject     string `gorm:"not null"`
	Description string
	Status      string `gorm:"type:varchar(30);not null;default:'open'"`
	Priority    string `gorm:"type:varchar(20);default:'medium'"`

	CustomerName  string
	CustomerPhone string

	AssignedTo string `gorm:"index"`
	CreatedBy  string `gorm:"index"`

	ResolvedAt *time.Time

	// Stored as a JSON-encoded array inside the row, same as Task.
	Comments CommentList `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type TicketHistory struct {
	ID        uint   `gorm:"primaryKey"`
	TicketID  string `gorm:"index;not null"`
	OldStatus string
	NewStatus string
	ChangedBy string
	CreatedAt time.Time
}
