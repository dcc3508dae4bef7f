package models

import "gorm.io/gorm"

// Notification is one row in a user's in-app inbox, written by the
// notification outbox alongside mail and live push.
type Notification struct {
	gorm.Model
	UserID      uint   `gorm:"not null;index"    json:"userId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text"         json:"description"`
	Seen        bool   `gorm:"not null;default:false" json:"seen"`
}
