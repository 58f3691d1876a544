package models

import (
	"time"

	"gorm.io/gorm"
)

type Wallet struct {
	ID            uint    `gorm:"primarykey"`
	UserID        uint    `gorm:"uniqueIndex;not null"`
	Balance       float64 `gorm:"not null;default:0"`
	LockedBalance float64 `gorm:"not null;default:0"`
	IsLocked      bool    `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	// Ensure balance starts at 0
	w.Balance = 0.0
	return nil
}
