package models

import "gorm.io/gorm"

// ServiceCategory is an admin-curated category shown on the services
// storefront (e.g. bathroom cleaning, pest control).
type ServiceCategory struct {
	gorm.Model
	Category string `gorm:"size:100;uniqueIndex;not null" json:"category"`
	Image    string `gorm:"size:512"                      json:"image"`

	SubCategories []CategorySubCategory `gorm:"foreignKey:CategoryID" json:"subCategories,omitempty"`
}

// CategorySubCategory is one selectable variant within a category. Area
// marks variants priced per floor area rather than per unit.
type CategorySubCategory struct {
	ID         uint   `gorm:"primaryKey"        json:"id"`
	CategoryID uint   `gorm:"not null;index"    json:"categoryId"`
	Name       string `gorm:"size:255;not null" json:"name"`
	Area       bool   `gorm:"not null;default:false" json:"area"`
}
