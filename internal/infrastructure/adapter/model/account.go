package model

import (
	"time"
)

// Account represents the database model for credit balances
type Account struct {
	UserID    string    `gorm:"primaryKey;size:255"`
	Balance   int64     `gorm:"not null;check:balance >= 0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}
