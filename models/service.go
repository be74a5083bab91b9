package models

import (
	"time"

	"github.com/google/uuid"
)

// Service is a repair/service job, keyed by its code, e.g. "SRV-2024-012".
type Service struct {
	ID string `gorm:"primary_key"`

	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`
	Customer   Customer  `gorm:"foreignKey:CustomerID"`

	DeviceType         string `gorm:"not null"`
	DeviceBrand        string
	ProblemDescription string  `gorm:"not null"`
	EstimatedCost      float64 `gorm:"type:decimal(10,2);default:0.0"`
	FinalCost          float64 `gorm:"type:decimal(10,2);default:0.0"`

	Status     string `gorm:"type:varchar(30);not null;default:'received'"`
	AssignedTo string
	CreatedBy  string

	CompletedAt *time.Time

	// Service comments live in their own table, unlike task/ticket comments.
	Comments []Comment `gorm:"foreignKey:ServiceID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ServiceHistory struct {
	ID        uint   `gorm:"primaryKey"`
	ServiceID string `gorm:"index;not null"`
	OldStatus string
	NewStatus string
	ChangedBy string
	CreatedAt time.Time
}
