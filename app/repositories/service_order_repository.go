package repositories

import (
	"time"

	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/pkg/orm"
	"gorm.io/gorm"
)

// ServiceOrderRepository handles service bookings.
type ServiceOrderRepository struct {
	tx *gorm.DB
}

func NewServiceOrderRepository() *ServiceOrderRepository {
	return &ServiceOrderRepository{}
}

func (r *ServiceOrderRepository) WithTx(tx *gorm.DB) *ServiceOrderRepository {
	return &ServiceOrderRepository{tx: tx}
}

func (r *ServiceOrderRepository) q() *orm.Query {
	if r.tx != nil {
		return orm.Use(r.tx)
	}
	return orm.DB()
}

func (r *ServiceOrderRepository) Create(order *models.ServiceOrder) error {
	return r.q().Create(order)
}

func (r *ServiceOrderRepository) Save(order *models.ServiceOrder) error {
	return r.q().Save(order)
}

func (r *ServiceOrderRepository) FindByID(orderID uint) (models.ServiceOrder, error) {
	var order models.ServiceOrder
	err := r.q().Preload("Service").Preload("Service.SubCategories").
		Where("id = ?", orderID).First(&order)
	return order, err
}

// ForUser returns one page of the user's bookings, newest first.
func (r *ServiceOrderRepository) ForUser(userID uint, page, perPage int) ([]models.ServiceOrder, orm.Pagination, error) {
	var orders []models.ServiceOrder
	pagination, err := r.q().Model(&models.ServiceOrder{}).
		Preload("Service").
		Where("user_id = ?", userID).
		Order("placed_date DESC").
		GetWithPagination(&orders, page, perPage)
	return orders, pagination, err
}

// ForWorker returns one page of the bookings assigned to a worker.
func (r *ServiceOrderRepository) ForWorker(workerID uint, page, perPage int) ([]models.ServiceOrder, orm.Pagination, error) {
	var orders []models.ServiceOrder
	pagination, err := r.q().Model(&models.ServiceOrder{}).
		Preload("Service").
		Where("worker_id = ?", workerID).
		Order("placed_date DESC").
		GetWithPagination(&orders, page, perPage)
	return orders, pagination, err
}

// Transition moves the booking to the next status under optimistic
// locking. extra columns (delivered date, OTP clearing) land in the same
// update. Returns false on a lost race.
func (r *ServiceOrderRepository) Transition(order *models.ServiceOrder, to string, extra map[string]interface{}) (bool, error) {
	values := map[string]interface{}{
		"status":  to,
		"version": order.Version + 1,
	}
	for k, v := range extra {
		values[k] = v
	}

	rows, err := r.q().Model(&models.ServiceOrder{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		UpdatesCount(values)
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// PlacedBetween returns bookings placed inside [from, to) with the buyer
// and service attached, for the monthly re-engagement reminder.
func (r *ServiceOrderRepository) PlacedBetween(from, to time.Time) ([]models.ServiceOrder, error) {
	var orders []models.ServiceOrder
	err := r.q().Preload("Service").
		Where("placed_date >= ? AND placed_date < ?", from, to).
		Get(&orders)
	return orders, err
}

// CountOrders tallies all bookings for the admin dashboard.
func (r *ServiceOrderRepository) CountOrders() (int64, error) {
	var count int64
	err := r.q().Model(&models.ServiceOrder{}).Count(&count)
	return count, err
}
