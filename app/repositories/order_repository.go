package repositories

import (
	"time"

	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/pkg/orm"
	"gorm.io/gorm"
)

// OrderRepository handles item orders and their per-shopkeeper packs.
type OrderRepository struct {
	tx *gorm.DB
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{tx: tx}
}

func (r *OrderRepository) q() *orm.Query {
	if r.tx != nil {
		return orm.Use(r.tx)
	}
	return orm.DB()
}

func (r *OrderRepository) Create(order *models.ItemOrder) error {
	return r.q().Create(order)
}

func (r *OrderRepository) CreatePack(pack *models.OrderItemPack) error {
	return r.q().Create(pack)
}

// FindByID fetches the order with its packs and their items.
func (r *OrderRepository) FindByID(orderID uint) (models.ItemOrder, error) {
	var order models.ItemOrder
	err := r.q().Preload("Packs").Preload("Packs.Item").
		Where("id = ?", orderID).First(&order)
	return order, err
}

func (r *OrderRepository) FindPack(packID uint) (models.OrderItemPack, error) {
	var pack models.OrderItemPack
	err := r.q().Preload("Item").Where("id = ?", packID).First(&pack)
	return pack, err
}

// ForUser returns one page of the user's orders, newest first.
func (r *OrderRepository) ForUser(userID uint, page, perPage int) ([]models.ItemOrder, orm.Pagination, error) {
	var orders []models.ItemOrder
	pagination, err := r.q().Model(&models.ItemOrder{}).
		Preload("Packs").Preload("Packs.Item").
		Where("user_id = ?", userID).
		Order("placed_date DESC").
		GetWithPagination(&orders, page, perPage)
	return orders, pagination, err
}

// ForShopkeeper returns one page of the packs addressed to a shop.
func (r *OrderRepository) ForShopkeeper(shopkeeperID uint, page, perPage int) ([]models.OrderItemPack, orm.Pagination, error) {
	var packs []models.OrderItemPack
	pagination, err := r.q().Model(&models.OrderItemPack{}).
		Preload("Item").
		Where("shopkeeper_id = ?", shopkeeperID).
		Order("created_at DESC").
		GetWithPagination(&packs, page, perPage)
	return packs, pagination, err
}

// TransitionPack moves a pack to the next status under optimistic
// locking: the update only lands if nobody advanced the row since it was
// read. Returns false on a lost race.
func (r *OrderRepository) TransitionPack(pack *models.OrderItemPack, to string) (bool, error) {
	values := map[string]interface{}{
		"status":  to,
		"version": pack.Version + 1,
	}
	if to == models.StatusDelivered {
		now := time.Now()
		values["delivered_date"] = &now
	}

	rows, err := r.q().Model(&models.OrderItemPack{}).
		Where("id = ? AND version = ?", pack.ID, pack.Version).
		UpdatesCount(values)
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// CountOrders tallies all item orders for the admin dashboard.
func (r *OrderRepository) CountOrders() (int64, error) {
	var count int64
	err := r.q().Model(&models.ItemOrder{}).Count(&count)
	return count, err
}
