package repositories

import (
	"fmt"
	"time"

	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/pkg/cache"
	"github.com/chhotalabhavik/cleanout/pkg/orm"
	"gorm.io/gorm"
)

// Sortable store columns. Anything else falls back to orderedCount.
var storeSortColumns = map[string]string{
	"price":        "price",
	"ratingValue":  "rating_value DESC",
	"orderedCount": "ordered_count DESC",
}

func storeOrder(sortBy string) string {
	if col, ok := storeSortColumns[sortBy]; ok {
		return col
	}
	return "ordered_count DESC"
}

// ItemRepository handles shop items.
type ItemRepository struct {
	tx *gorm.DB
}

func NewItemRepository() *ItemRepository {
	return &ItemRepository{}
}

func (r *ItemRepository) WithTx(tx *gorm.DB) *ItemRepository {
	return &ItemRepository{tx: tx}
}

func (r *ItemRepository) q() *orm.Query {
	if r.tx != nil {
		return orm.Use(r.tx)
	}
	return orm.DB()
}

func (r *ItemRepository) FindByID(id uint) (models.Item, error) {
	var item models.Item
	err := r.q().Where("id = ?", id).First(&item)
	return item, err
}

func (r *ItemRepository) Create(item *models.Item) error {
	if err := r.q().Create(item); err != nil {
		return err
	}
	invalidateStoreCache()
	return nil
}

func (r *ItemRepository) Save(item *models.Item) error {
	if err := r.q().Save(item); err != nil {
		return err
	}
	invalidateStoreCache()
	return nil
}

func (r *ItemRepository) Delete(id uint) error {
	if err := r.q().Where("id = ?", id).Delete(&models.Item{}); err != nil {
		return err
	}
	invalidateStoreCache()
	return nil
}

// OwnedBy returns one page of a shopkeeper's items.
func (r *ItemRepository) OwnedBy(shopkeeperID uint, page, perPage int) ([]models.Item, orm.Pagination, error) {
	var items []models.Item
	pagination, err := r.q().Model(&models.Item{}).
		Where("shopkeeper_id = ?", shopkeeperID).
		Order("created_at DESC").
		GetWithPagination(&items, page, perPage)
	return items, pagination, err
}

// Random picks n available items for the home page.
func (r *ItemRepository) Random(n int) ([]models.Item, error) {
	var items []models.Item
	err := r.q().Model(&models.Item{}).
		Where("is_available = ?", true).
		Order("RANDOM()").
		Limit(n).
		Get(&items)
	return items, err
}

// Store returns one page of the item storefront. The unfiltered default
// sort is served through the redis read-through cache; item writes bump
// the cache generation.
func (r *ItemRepository) Store(search, sortBy string, page, perPage int) ([]models.Item, orm.Pagination, error) {
	q := r.q().Model(&models.Item{}).Where("is_available = ?", true)
	if search != "" {
		q = q.Where("item_name LIKE ?", "%"+search+"%")
	}
	q = q.Order(storeOrder(sortBy))

	if search == "" {
		var items []models.Item
		key := fmt.Sprintf("store:items:%s:%s:%d:%d", storeGeneration(), sortBy, page, perPage)
		if err := q.Offset((page - 1) * perPage).Limit(perPage).Cache(key, time.Minute, &items); err != nil {
			return nil, orm.Pagination{}, err
		}
		var total int64
		if err := r.q().Model(&models.Item{}).Where("is_available = ?", true).Count(&total); err != nil {
			return nil, orm.Pagination{}, err
		}
		totalPages := int((total + int64(perPage) - 1) / int64(perPage))
		return items, orm.Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}, nil
	}

	var items []models.Item
	pagination, err := q.GetWithPagination(&items, page, perPage)
	return items, pagination, err
}

// IncrementOrdered adjusts the popularity tally; delta may be negative on
// cancellation.
func (r *ItemRepository) IncrementOrdered(itemID uint, delta int64) error {
	return r.q().Model(&models.Item{}).Where("id = ?", itemID).
		Updates(map[string]interface{}{"ordered_count": gorm.Expr("ordered_count + ?", delta)})
}

// SetRating overwrites the running rating mean and review count.
func (r *ItemRepository) SetRating(itemID uint, value float64, count int64) error {
	err := r.q().Model(&models.Item{}).Where("id = ?", itemID).
		Updates(map[string]interface{}{"rating_value": value, "rating_count": count})
	if err != nil {
		return err
	}
	invalidateStoreCache()
	return nil
}

// Store cache generation: bumping the generation key orphans every cached
// page at once, which redis then expires naturally.

const storeGenKey = "store:items:gen"

func storeGeneration() string {
	var gen string
	if cache.Get(storeGenKey, &gen) {
		return gen
	}
	return "0"
}

func invalidateStoreCache() {
	gen := fmt.Sprintf("%d", time.Now().UnixNano())
	cache.Set(storeGenKey, gen, 24*time.Hour)
}
