package models

import "gorm.io/gorm"

// Service is a cleaning service offered by a provider — a worker offering
// it personally, or a shopkeeper whose dependent workers carry it out.
type Service struct {
	gorm.Model
	ProviderID      uint   `gorm:"not null;index"          json:"providerId"`
	ServiceName     string `gorm:"size:255;not null"       json:"serviceName"`
	ServiceCategory string `gorm:"size:100;not null;index" json:"serviceCategory"`
	Description     string `gorm:"type:text"               json:"description"`

	SubCategories []ServiceSubCategory `gorm:"foreignKey:ServiceID" json:"subCategories,omitempty"`
}

// ServiceSubCategory is one priced variant of a service. MaxSquareFt is
// set for area-priced variants (e.g. floor cleaning per 1000 sq ft).
type ServiceSubCategory struct {
	ID          uint    `gorm:"primaryKey"        json:"id"`
	ServiceID   uint    `gorm:"not null;index"    json:"serviceId"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	Price       float64 `gorm:"not null"          json:"price"`
	MaxSquareFt *int    `json:"maxSquareFt,omitempty"`
}

// WorkerService links a worker to a service they can perform and carries
// the rating and order tallies shown in store listings. One row per
// worker per service.
type WorkerService struct {
	gorm.Model
	WorkerID     uint    `gorm:"not null;uniqueIndex:idx_worker_service" json:"workerId"`
	ServiceID    uint    `gorm:"not null;uniqueIndex:idx_worker_service" json:"serviceId"`
	RatingValue  float64 `gorm:"not null;default:0" json:"ratingValue"`
	RatingCount  int64   `gorm:"not null;default:0" json:"ratingCount"`
	OrderedCount int64   `gorm:"not null;default:0" json:"orderedCount"`

	Service *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Worker  *Worker  `gorm:"foreignKey:WorkerID"  json:"worker,omitempty"`
}
