package models

import "gorm.io/gorm"

// Item is a product sold by a shopkeeper.
type Item struct {
	gorm.Model
	ShopkeeperID uint    `gorm:"not null;index"         json:"shopkeeperId"`
	ItemName     string  `gorm:"size:255;not null;index" json:"itemName"`
	Price        float64 `gorm:"not null"               json:"price"`
	OrderedCount int64   `gorm:"not null;default:0"     json:"orderedCount"`
	ItemImage    string  `gorm:"size:512"               json:"itemImage"`
	IsAvailable  bool    `gorm:"not null;default:true"  json:"isAvailable"`
	RatingValue  float64 `gorm:"not null;default:0"     json:"ratingValue"`
	RatingCount  int64   `gorm:"not null;default:0"     json:"ratingCount"`
	Description  string  `gorm:"type:text"              json:"description"`
}

// CartItemPack is one line of a user's cart. A user has at most one line
// per item; adding the same item again bumps the count.
type CartItemPack struct {
	ID     uint `gorm:"primaryKey"                              json:"id"`
	UserID uint `gorm:"not null;uniqueIndex:idx_cart_user_item" json:"userId"`
	ItemID uint `gorm:"not null;uniqueIndex:idx_cart_user_item" json:"itemId"`
	Count  int  `gorm:"not null"                                json:"count"`

	Item *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}
