package models

import (
	"time"
)

// SkinStatus controls whether a skin appears in public listings
type SkinStatus string

const (
	StatusActive   SkinStatus = "Active"
	StatusDisabled SkinStatus = "Disabled"
)

// ValidStatus reports whether s is one of the two accepted states.
func ValidStatus(s SkinStatus) bool {
	return s == StatusActive || s == StatusDisabled
}

// WeaponSkin represents a purchasable catalog item. UserID is the owning
// admin; WeaponName/WeaponType are free-text, populated from the Weapon
// reference list but not constrained by it. Price is in the smallest VP
// display unit.
type WeaponSkin struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Filename    string     `gorm:"size:256;not null" json:"filename"`
	Description string     `gorm:"size:256" json:"description"`
	ImageURL    string     `gorm:"size:512;not null" json:"imageUrl"`
	UserID      string     `gorm:"size:256;not null;index" json:"userId"`
	WeaponType  string     `gorm:"size:256;not null" json:"weaponType"`
	WeaponName  string     `gorm:"size:256;not null" json:"weaponName"`
	APIKey      string     `gorm:"size:256;not null;uniqueIndex" json:"apiKey"`
	Status      SkinStatus `gorm:"type:varchar(50);default:'Active';not null" json:"status"`
	Price       int        `gorm:"not null;default:0" json:"price"`
}
