package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`

	// Set only for products mirrored from the WooCommerce store.
	WooID *int64 `gorm:"uniqueIndex"`

	Name           string `gorm:"not null"`
	Description    string
	BasePrice      float64 `gorm:"type:decimal(10,2);not null"`
	AdditionalCost float64 `gorm:"type:decimal(10,2);default:0.0"`
	Source         string  `gorm:"type:varchar(20);default:'Internal'"`
	IsActive       bool    `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FinalPrice is derived, never stored.
func (p *Product) FinalPrice() float64 {
	return p.BasePrice + p.AdditionalCost
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Source == "" {
		p.Source = SourceInternal
	}
	return
}
