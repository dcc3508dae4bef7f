package models

import (
	"time"

	"gorm.io/gorm"
)

// Account roles. Role changes go through registration or the coadmin
// toggle; ADMIN is immutable.
const (
	RoleUser       = "USER"
	RoleWorker     = "WORKER"
	RoleShopkeeper = "SHOPKEEPER"
	RoleCoadmin    = "COADMIN"
	RoleAdmin      = "ADMIN"
)

// Worker dependency states. REQUESTED means a shopkeeper has invited the
// worker and the worker has not yet responded.
const (
	DependencyNone      = "NONE"
	DependencyRequested = "REQUESTED"
	DependencyDependent = "DEPENDENT"
)

// User is the account shared by every role. Role-specific data lives in
// the Worker / Shopkeeper child rows keyed by user id.
type User struct {
	gorm.Model
	UserName     string     `gorm:"size:255;not null"            json:"userName"`
	Phone        string     `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	Password     string     `gorm:"size:255;not null"            json:"-"` // bcrypt hash, never serialised
	Role         string     `gorm:"size:20;not null;default:USER" json:"role"`
	OTP          string     `gorm:"size:512"                     json:"-"` // encrypted password-reset code
	OTPExpiresAt *time.Time `json:"-"`

	Address *Address `gorm:"foreignKey:UserID" json:"address,omitempty"`
}

// Address is the single postal address owned by a user.
type Address struct {
	UserID    uint      `gorm:"primaryKey"             json:"userId"`
	Society   string    `gorm:"size:255;not null"      json:"society"`
	Area      string    `gorm:"size:255;not null"      json:"area"`
	Pincode   string    `gorm:"size:10;not null;index" json:"pincode"`
	City      string    `gorm:"size:100;not null"      json:"city"`
	State     string    `gorm:"size:100;not null"      json:"state"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Worker extends a WORKER user with verification papers, the optional
// shop affiliation and serviceable pincodes.
type Worker struct {
	UserID         uint      `gorm:"primaryKey"             json:"userId"`
	ShopkeeperID   *uint     `gorm:"index"                  json:"shopkeeperId"`
	ProfilePicture string    `gorm:"size:512"               json:"profilePicture"`
	Proof1         string    `gorm:"size:512"               json:"proof1"`
	Proof2         string    `gorm:"size:512"               json:"proof2"`
	IsVerified     bool      `gorm:"not null;default:false" json:"isVerified"`
	Dependency     string    `gorm:"size:20;not null;default:NONE" json:"dependency"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`

	User      *User      `gorm:"foreignKey:UserID"   json:"user,omitempty"`
	Locations []Location `gorm:"foreignKey:WorkerID" json:"locations,omitempty"`
}

// Shopkeeper extends a SHOPKEEPER user with the shop identity and papers.
type Shopkeeper struct {
	UserID     uint      `gorm:"primaryKey"             json:"userId"`
	ShopName   string    `gorm:"size:255;not null"      json:"shopName"`
	Proof1     string    `gorm:"size:512"               json:"proof1"`
	Proof2     string    `gorm:"size:512"               json:"proof2"`
	IsVerified bool      `gorm:"not null;default:false" json:"isVerified"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Location is one pincode a worker serves. A worker cannot list the same
// pincode twice.
type Location struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	WorkerID uint   `gorm:"not null;uniqueIndex:idx_worker_pincode" json:"workerId"`
	Pincode  string `gorm:"size:10;not null;uniqueIndex:idx_worker_pincode;index" json:"pincode"`
}

// ValidRole reports whether role is one of the closed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleWorker, RoleShopkeeper, RoleCoadmin, RoleAdmin:
		return true
	}
	return false
}
