package repositories

import (
	"errors"

	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/pkg/orm"
	"gorm.io/gorm"
)

// CartRepository handles cart lines.
type CartRepository struct {
	tx *gorm.DB
}

func NewCartRepository() *CartRepository {
	return &CartRepository{}
}

func (r *CartRepository) WithTx(tx *gorm.DB) *CartRepository {
	return &CartRepository{tx: tx}
}

func (r *CartRepository) q() *orm.Query {
	if r.tx != nil {
		return orm.Use(r.tx)
	}
	return orm.DB()
}

// Lines returns every cart line for the user with the item attached. The
// item pointer is nil when the item has since been deleted — callers
// prune those.
func (r *CartRepository) Lines(userID uint) ([]models.CartItemPack, error) {
	var lines []models.CartItemPack
	err := r.q().Preload("Item").Where("user_id = ?", userID).Get(&lines)
	return lines, err
}

func (r *CartRepository) FindPack(packID uint) (models.CartItemPack, error) {
	var pack models.CartItemPack
	err := r.q().Where("id = ?", packID).First(&pack)
	return pack, err
}

// Add upserts a cart line: a new item gets a fresh line, an existing one
// has its count bumped.
func (r *CartRepository) Add(userID, itemID uint, count int) error {
	var existing models.CartItemPack
	err := r.q().Where("user_id = ? AND item_id = ?", userID, itemID).First(&existing)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		line := models.CartItemPack{UserID: userID, ItemID: itemID, Count: count}
		return r.q().Create(&line)
	}
	if err != nil {
		return err
	}

	existing.Count += count
	return r.q().Save(&existing)
}

// SetCount overwrites the line count; zero deletes the line.
func (r *CartRepository) SetCount(packID uint, count int) error {
	if count == 0 {
		return r.DeletePack(packID)
	}
	return r.q().Model(&models.CartItemPack{}).Where("id = ?", packID).
		Updates(map[string]interface{}{"count": count})
}

func (r *CartRepository) DeletePack(packID uint) error {
	return r.q().Where("id = ?", packID).Delete(&models.CartItemPack{})
}

// Clear empties the user's cart.
func (r *CartRepository) Clear(userID uint) error {
	return r.q().Where("user_id = ?", userID).Delete(&models.CartItemPack{})
}
