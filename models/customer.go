package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Record origin, shared by customers and products.
const (
	SourceInternal    = "Internal"
	SourceWooCommerce = "WooCommerce"
)

type Customer struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`

	Name    string `gorm:"not null;index"`
	Phone   string
	Email   string
	Address string
	Source  string `gorm:"type:varchar(20);default:'Internal'"` // 'WooCommerce' or 'Internal'

	Orders   []Order   `gorm:"foreignKey:CustomerID"`
	Services []Service `gorm:"foreignKey:CustomerID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Source == "" {
		c.Source = SourceInternal
	}
	return
}
