package model

import (
	"time"
)

// PaymentOrder represents the database model for payment-provider events.
// The unique index on external_id is the idempotency gate's serialization
// point; there is no application-level lock behind it.
type PaymentOrder struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	ExternalID string    `gorm:"uniqueIndex;not null;size:255"`
	UserID     string    `gorm:"not null;index;size:255"`
	Amount     int64     `gorm:"not null"`
	Bonus      int64     `gorm:"not null"`
	Status     string    `gorm:"not null;size:50;index"`
	Provider   string    `gorm:"not null;size:100"`
	Metadata   JSONMap   `gorm:"type:json"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName specifies the table name for PaymentOrder
func (PaymentOrder) TableName() string {
	return "payment_orders"
}
