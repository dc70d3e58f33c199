package model

import (
	"time"
)

// Transaction represents the database model for the append-only audit log
type Transaction struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	TransactionID string    `gorm:"uniqueIndex;not null;size:255"`
	UserID        string    `gorm:"not null;index;size:255"`
	OperationType string    `gorm:"not null;size:50"`
	APIProvider   string    `gorm:"size:100"`
	ModelUsed     string    `gorm:"size:100"`
	Amount        int64     `gorm:"not null"`
	Status        string    `gorm:"not null;size:50;index"`
	RetryCount    int       `gorm:"not null;default:0"`
	MaxRetries    int       `gorm:"not null;default:0"`
	ErrorMessage  string    `gorm:"type:text"`
	ReferenceID   string    `gorm:"index;size:255"`
	ResultBalance int64     `gorm:"not null;default:0"`
	Metadata      JSONMap   `gorm:"type:json"`
	CreatedAt     time.Time `gorm:"not null;index"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
