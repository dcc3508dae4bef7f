package repositories

import (
	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/pkg/orm"
	"gorm.io/gorm"
)

// CategoryRepository handles the admin-curated service categories.
type CategoryRepository struct {
	tx *gorm.DB
}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

func (r *CategoryRepository) WithTx(tx *gorm.DB) *CategoryRepository {
	return &CategoryRepository{tx: tx}
}

func (r *CategoryRepository) q() *orm.Query {
	if r.tx != nil {
		return orm.Use(r.tx)
	}
	return orm.DB()
}

func (r *CategoryRepository) All() ([]models.ServiceCategory, error) {
	var categories []models.ServiceCategory
	err := r.q().Preload("SubCategories").Order("category").Get(&categories)
	return categories, err
}

func (r *CategoryRepository) FindByID(id uint) (models.ServiceCategory, error) {
	var category models.ServiceCategory
	err := r.q().Preload("SubCategories").Where("id = ?", id).First(&category)
	return category, err
}

func (r *CategoryRepository) Create(category *models.ServiceCategory) error {
	return r.q().Create(category)
}

func (r *CategoryRepository) Save(category *models.ServiceCategory) error {
	return r.q().Save(category)
}

// Delete removes the category with its sub-categories.
func (r *CategoryRepository) Delete(id uint) error {
	if err := r.q().Where("category_id = ?", id).Delete(&models.CategorySubCategory{}); err != nil {
		return err
	}
	return r.q().Where("id = ?", id).Delete(&models.ServiceCategory{})
}

// ReplaceSubCategories swaps the category's variant list.
func (r *CategoryRepository) ReplaceSubCategories(categoryID uint, subs []models.CategorySubCategory) error {
	if err := r.q().Where("category_id = ?", categoryID).Delete(&models.CategorySubCategory{}); err != nil {
		return err
	}
	for i := range subs {
		subs[i].ID = 0
		subs[i].CategoryID = categoryID
		if err := r.q().Create(&subs[i]); err != nil {
			return err
		}
	}
	return nil
}
