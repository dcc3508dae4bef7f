package models

import "gorm.io/gorm"

// Rating targets.
const (
	TargetItem    = "ITEM"
	TargetService = "SERVICE"
)

// Rating is one user's review of an item or a worker's service. The
// target keeps a running mean, so a user may rate each target only once
// and later edits adjust the mean in place.
type Rating struct {
	gorm.Model
	UserID      uint    `gorm:"not null;uniqueIndex:idx_rating_target"  json:"userId"`
	TargetID    uint    `gorm:"not null;uniqueIndex:idx_rating_target"  json:"targetId"`
	TargetKind  string  `gorm:"size:10;not null;uniqueIndex:idx_rating_target" json:"targetKind"`
	RatingValue float64 `gorm:"not null"                                json:"ratingValue"`
	Description string  `gorm:"type:text"                               json:"description"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
