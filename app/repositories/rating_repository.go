package repositories

import (
	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/pkg/orm"
	"gorm.io/gorm"
)

// RatingRepository handles reviews of items and worker services.
type RatingRepository struct {
	tx *gorm.DB
}

func NewRatingRepository() *RatingRepository {
	return &RatingRepository{}
}

func (r *RatingRepository) WithTx(tx *gorm.DB) *RatingRepository {
	return &RatingRepository{tx: tx}
}

func (r *RatingRepository) q() *orm.Query {
	if r.tx != nil {
		return orm.Use(r.tx)
	}
	return orm.DB()
}

func (r *RatingRepository) FindByID(id uint) (models.Rating, error) {
	var rating models.Rating
	err := r.q().Where("id = ?", id).First(&rating)
	return rating, err
}

// FindByUserAndTarget fetches the single review a user may hold on a
// target.
func (r *RatingRepository) FindByUserAndTarget(userID, targetID uint, targetKind string) (models.Rating, error) {
	var rating models.Rating
	err := r.q().
		Where("user_id = ? AND target_id = ? AND target_kind = ?", userID, targetID, targetKind).
		First(&rating)
	return rating, err
}

func (r *RatingRepository) Create(rating *models.Rating) error {
	return r.q().Create(rating)
}

func (r *RatingRepository) Save(rating *models.Rating) error {
	return r.q().Save(rating)
}

// Delete is permanent: the (user, target) unique index must free up so
// the user can review the target again later.
func (r *RatingRepository) Delete(id uint) error {
	return r.q().Unscoped().Where("id = ?", id).Delete(&models.Rating{})
}

// ListForTarget returns one page of reviews with non-empty descriptions,
// reviewer attached, newest first.
func (r *RatingRepository) ListForTarget(targetID uint, targetKind string, page, perPage int) ([]models.Rating, orm.Pagination, error) {
	var ratings []models.Rating
	pagination, err := r.q().Model(&models.Rating{}).
		Preload("User").
		Where("target_id = ? AND target_kind = ? AND description <> ''", targetID, targetKind).
		Order("created_at DESC").
		GetWithPagination(&ratings, page, perPage)
	return ratings, pagination, err
}
