package models

import (
	"time"

	"gorm.io/gorm"
)

// ServiceOrder is a booking of one worker's service by a user. When the
// worker is shop-dependent at booking time, ShopkeeperID records the shop
// for notification fan-out. MetaData carries the chosen sub-categories
// and quantities as JSON; OTP holds the encrypted delivery-confirmation
// code while one is outstanding.
type ServiceOrder struct {
	gorm.Model
	UserID          uint       `gorm:"not null;index"          json:"userId"`
	WorkerID        uint       `gorm:"not null;index"          json:"workerId"`
	ShopkeeperID    *uint      `gorm:"index"                   json:"shopkeeperId"`
	ServiceID       uint       `gorm:"not null;index"          json:"serviceId"`
	PlacedDate      time.Time  `gorm:"not null;index"          json:"placedDate"`
	DeliveredDate   *time.Time `json:"deliveredDate"`
	Price           float64    `gorm:"not null"                json:"price"`
	Status          string     `gorm:"size:20;not null;default:PENDING" json:"status"`
	ServiceCategory string     `gorm:"size:100;not null"       json:"serviceCategory"`
	MetaData        string     `gorm:"type:text"               json:"metaData"`
	OTP             string     `gorm:"size:512"                json:"-"`
	OTPExpiresAt    *time.Time `json:"-"`
	Version         int64      `gorm:"not null;default:0"      json:"-"`

	Service *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}
