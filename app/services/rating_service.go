package services

import (
	"errors"

	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/app/repositories"
	"github.com/chhotalabhavik/cleanout/config"
	"github.com/chhotalabhavik/cleanout/pkg/orm"
	"gorm.io/gorm"
)

// RatingService maintains reviews and the incremental rating means on
// items and worker services. Each user holds at most one review per
// target; the target never re-scans its reviews, the mean is adjusted in
// place on every write.
type RatingService struct {
	ratings  *repositories.RatingRepository
	items    *repositories.ItemRepository
	services *repositories.ServiceRepository
}

func NewRatingService() *RatingService {
	return &RatingService{
		ratings:  repositories.NewRatingRepository(),
		items:    repositories.NewItemRepository(),
		services: repositories.NewServiceRepository(),
	}
}

// RatingInput carries the add/update form.
type RatingInput struct {
	RatingValue float64 `json:"ratingValue" validate:"required,gte=1,lte=5"`
	Description string  `json:"description"`
}

// target reads the current mean and count off the rated row.
func (s *RatingService) target(tx *gorm.DB, targetID uint, kind string) (float64, int64, error) {
	switch kind {
	case models.TargetItem:
		item, err := s.items.WithTx(tx).FindByID(targetID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, Fail("Item not found")
		}
		return item.RatingValue, item.RatingCount, err
	case models.TargetService:
		ws, err := s.services.WithTx(tx).FindWorkerService(targetID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, Fail("Worker service not found")
		}
		return ws.RatingValue, ws.RatingCount, err
	default:
		return 0, 0, Fail("Rating not found")
	}
}

func (s *RatingService) setTarget(tx *gorm.DB, targetID uint, kind string, value float64, count int64) error {
	if kind == models.TargetItem {
		return s.items.WithTx(tx).SetRating(targetID, value, count)
	}
	return s.services.WithTx(tx).SetRating(targetID, value, count)
}

// Mine fetches the caller's review of a target.
func (s *RatingService) Mine(userID, targetID uint, kind string) (models.Rating, error) {
	rating, err := s.ratings.FindByUserAndTarget(userID, targetID, kind)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Rating{}, Fail("Rating not found")
	}
	return rating, err
}

// ListForTarget pages the written reviews of a target.
func (s *RatingService) ListForTarget(targetID uint, kind string, page int) ([]models.Rating, orm.Pagination, error) {
	return s.ratings.ListForTarget(targetID, kind, page, config.LimitRatings())
}

// Add creates the user's review and folds it into the target mean:
// mean' = (mean*count + v) / (count+1).
func (s *RatingService) Add(userID, targetID uint, kind string, in RatingInput) (models.Rating, error) {
	if _, err := s.ratings.FindByUserAndTarget(userID, targetID, kind); err == nil {
		return s.Update(userID, targetID, kind, in)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Rating{}, err
	}

	rating := models.Rating{
		UserID:      userID,
		TargetID:    targetID,
		TargetKind:  kind,
		RatingValue: in.RatingValue,
		Description: in.Description,
	}

	err := orm.Transaction(func(tx *gorm.DB) error {
		mean, count, err := s.target(tx, targetID, kind)
		if err != nil {
			return err
		}
		if err := s.ratings.WithTx(tx).Create(&rating); err != nil {
			return err
		}
		mean = (mean*float64(count) + in.RatingValue) / float64(count+1)
		return s.setTarget(tx, targetID, kind, mean, count+1)
	})
	if err != nil {
		return models.Rating{}, err
	}
	return rating, nil
}

// Update edits the user's review; the mean shifts by the value delta:
// mean' = mean + (v - prev) / count.
func (s *RatingService) Update(userID, targetID uint, kind string, in RatingInput) (models.Rating, error) {
	rating, err := s.ratings.FindByUserAndTarget(userID, targetID, kind)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Rating{}, Fail("Rating not found")
	}
	if err != nil {
		return models.Rating{}, err
	}

	prev := rating.RatingValue
	rating.RatingValue = in.RatingValue
	rating.Description = in.Description

	err = orm.Transaction(func(tx *gorm.DB) error {
		mean, count, err := s.target(tx, targetID, kind)
		if err != nil {
			return err
		}
		if err := s.ratings.WithTx(tx).Save(&rating); err != nil {
			return err
		}
		if count > 0 {
			mean += (in.RatingValue - prev) / float64(count)
		} else {
			mean = in.RatingValue
			count = 1
		}
		return s.setTarget(tx, targetID, kind, mean, count)
	})
	if err != nil {
		return models.Rating{}, err
	}
	return rating, nil
}

// Delete removes the user's review and backs it out of the mean; the
// last review resets the target to the default rating.
func (s *RatingService) Delete(userID, targetID uint, kind string) error {
	rating, err := s.ratings.FindByUserAndTarget(userID, targetID, kind)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Fail("Rating not found")
	}
	if err != nil {
		return err
	}

	return orm.Transaction(func(tx *gorm.DB) error {
		mean, count, err := s.target(tx, targetID, kind)
		if err != nil {
			return err
		}
		if err := s.ratings.WithTx(tx).Delete(rating.ID); err != nil {
			return err
		}
		if count <= 1 {
			return s.setTarget(tx, targetID, kind, config.DefaultRating(), 0)
		}
		mean = (mean*float64(count) - rating.RatingValue) / float64(count-1)
		return s.setTarget(tx, targetID, kind, mean, count-1)
	})
}
