package repositories

import (
	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/pkg/orm"
	"gorm.io/gorm"
)

// ProviderFilter narrows the admin console's provider searches. Verified
// nil means any verification state.
type ProviderFilter struct {
	Phone    string
	Pincode  string
	Name     string
	Verified *bool
}

// AdminRepository serves the admin console's provider searches.
type AdminRepository struct {
	tx *gorm.DB
}

func NewAdminRepository() *AdminRepository {
	return &AdminRepository{}
}

func (r *AdminRepository) WithTx(tx *gorm.DB) *AdminRepository {
	return &AdminRepository{tx: tx}
}

func (r *AdminRepository) q() *orm.Query {
	if r.tx != nil {
		return orm.Use(r.tx)
	}
	return orm.DB()
}

func applyProviderFilter(q *orm.Query, table string, f ProviderFilter) *orm.Query {
	if f.Phone != "" {
		q = q.Where("users.phone = ?", f.Phone)
	}
	if f.Name != "" {
		q = q.Where("users.user_name LIKE ?", "%"+f.Name+"%")
	}
	if f.Pincode != "" {
		q = q.Joins("JOIN addresses ON addresses.user_id = users.id").
			Where("addresses.pincode = ?", f.Pincode)
	}
	if f.Verified != nil {
		q = q.Where(table+".is_verified = ?", *f.Verified)
	}
	return q
}

// SearchWorkers pages workers matched by phone, pincode or name.
func (r *AdminRepository) SearchWorkers(f ProviderFilter, page, perPage int) ([]models.Worker, orm.Pagination, error) {
	q := r.q().Model(&models.Worker{}).
		Preload("User").Preload("User.Address").Preload("Locations").
		Joins("JOIN users ON users.id = workers.user_id")
	q = applyProviderFilter(q, "workers", f)

	var workers []models.Worker
	pagination, err := q.Order("workers.created_at DESC").GetWithPagination(&workers, page, perPage)
	return workers, pagination, err
}

// SearchShopkeepers pages shopkeepers with the same filters.
func (r *AdminRepository) SearchShopkeepers(f ProviderFilter, page, perPage int) ([]models.Shopkeeper, orm.Pagination, error) {
	q := r.q().Model(&models.Shopkeeper{}).
		Preload("User").Preload("User.Address").
		Joins("JOIN users ON users.id = shopkeepers.user_id")
	q = applyProviderFilter(q, "shopkeepers", f)

	var shopkeepers []models.Shopkeeper
	pagination, err := q.Order("shopkeepers.created_at DESC").GetWithPagination(&shopkeepers, page, perPage)
	return shopkeepers, pagination, err
}
