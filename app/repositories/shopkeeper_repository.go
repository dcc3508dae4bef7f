package repositories

import (
	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/pkg/orm"
	"gorm.io/gorm"
)

// ShopkeeperRepository handles shopkeeper rows.
type ShopkeeperRepository struct {
	tx *gorm.DB
}

func NewShopkeeperRepository() *ShopkeeperRepository {
	return &ShopkeeperRepository{}
}

func (r *ShopkeeperRepository) WithTx(tx *gorm.DB) *ShopkeeperRepository {
	return &ShopkeeperRepository{tx: tx}
}

func (r *ShopkeeperRepository) q() *orm.Query {
	if r.tx != nil {
		return orm.Use(r.tx)
	}
	return orm.DB()
}

func (r *ShopkeeperRepository) FindByUserID(userID uint) (models.Shopkeeper, error) {
	var shopkeeper models.Shopkeeper
	err := r.q().Preload("User").Preload("User.Address").
		Where("user_id = ?", userID).First(&shopkeeper)
	return shopkeeper, err
}

func (r *ShopkeeperRepository) Create(shopkeeper *models.Shopkeeper) error {
	return r.q().Create(shopkeeper)
}

func (r *ShopkeeperRepository) Save(shopkeeper *models.Shopkeeper) error {
	return r.q().Save(shopkeeper)
}

func (r *ShopkeeperRepository) Delete(userID uint) error {
	return r.q().Where("user_id = ?", userID).Delete(&models.Shopkeeper{})
}

func (r *ShopkeeperRepository) CountAll() (int64, error) {
	var count int64
	err := r.q().Model(&models.Shopkeeper{}).Count(&count)
	return count, err
}
