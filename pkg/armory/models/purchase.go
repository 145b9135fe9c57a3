package models

import (
	"time"
)

// Purchase is an immutable snapshot of a completed purchase. Name, image
// and price are denormalized from the skin at purchase time so later
// catalog edits never alter historical records. Rows are appended once
// and never updated or deleted.
type Purchase struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	WeaponID   uint      `gorm:"not null" json:"weaponId"`
	WeaponName string    `gorm:"size:256" json:"weaponName"`
	ImageURL   string    `gorm:"size:512" json:"imageUrl"`
	Price      int       `gorm:"not null;default:0" json:"price"`
	UserID     string    `gorm:"size:256;not null;index" json:"userId"`
}

// TableName keeps the ledger under its historical table name.
func (Purchase) TableName() string {
	return "purchased"
}
