package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a billed party. Email is unique when present so
// duplicate customers are rejected at creation time.
type Customer struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CreatedByID uuid.UUID      `gorm:"type:uuid;not null;index" json:"created_by"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Email       *string        `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	Phone       *string        `gorm:"size:50" json:"phone,omitempty"`
	Company     *string        `gorm:"size:255" json:"company,omitempty"`
	Address     *string        `gorm:"type:text" json:"address,omitempty"`
	Country     *string        `gorm:"size:100" json:"country,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	CreatedBy User      `gorm:"foreignKey:CreatedByID" json:"-"`
	Invoices  []Invoice `gorm:"foreignKey:CustomerID" json:"-"`
	Payments  []Payment `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
