package models

import (
	"time"
)

// Weapon is a reference-list entry used to populate skin metadata.
// Deleting a weapon has no effect on skins that carry its name/type.
type Weapon struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Name      string    `gorm:"size:256;not null" json:"name"`
	Type      string    `gorm:"size:256;not null" json:"type"`
}
