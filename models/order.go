package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order is keyed by its human-readable code, e.g. "PRS-2024-007".
type Order struct {
	ID string `gorm:"primary_key"`

	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`
	Customer   Customer  `gorm:"foreignKey:CustomerID"`

	Status     string  `gorm:"type:varchar(30);not null;default:'pending'"`
	Total      float64 `gorm:"type:decimal(10,2);not null"`
	Notes      string
	AssignedTo string
	CreatedBy  string

	DeliveredAt *time.Time

	Products []OrderProduct `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderProduct struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID   string    `gorm:"index;not null"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"`
	Product   Product   `gorm:"foreignKey:ProductID"`

	Quantity int     `gorm:"default:1"`
	Price    float64 `gorm:"type:decimal(10,2);not null"` // unit price at order time
}

func (op *OrderProduct) BeforeCreate(tx *gorm.DB) (err error) {
	if op.ID == uuid.Nil {
		op.ID = uuid.New()
	}
	return
}
