package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/app/services"
	"github.com/chhotalabhavik/cleanout/config"
)

func itemRating(t *testing.T, db *gorm.DB, itemID uint) (float64, int64) {
	t.Helper()
	var item models.Item
	require.NoError(t, db.First(&item, itemID).Error)
	return item.RatingValue, item.RatingCount
}

func TestRatingMeanMaintainedIncrementally(t *testing.T) {
	db := setupDB(t)

	shop := createShopkeeper(t, db, "Ravi", "9000000001")
	item := createItem(t, db, shop.ID, "Broom", 100)
	alice := createUser(t, db, "Alice", "9000000002", models.RoleUser)
	bob := createUser(t, db, "Bob", "9000000003", models.RoleUser)

	svc := services.NewRatingService()

	_, err := svc.Add(alice.ID, item.ID, models.TargetItem, services.RatingInput{RatingValue: 4})
	require.NoError(t, err)
	mean, count := itemRating(t, db, item.ID)
	assert.Equal(t, 4.0, mean)
	assert.Equal(t, int64(1), count)

	_, err = svc.Add(bob.ID, item.ID, models.TargetItem, services.RatingInput{RatingValue: 2})
	require.NoError(t, err)
	mean, count = itemRating(t, db, item.ID)
	assert.InDelta(t, 3.0, mean, 1e-9)
	assert.Equal(t, int64(2), count)

	// Editing shifts the mean by the delta over the count.
	_, err = svc.Update(alice.ID, item.ID, models.TargetItem, services.RatingInput{RatingValue: 5})
	require.NoError(t, err)
	mean, count = itemRating(t, db, item.ID)
	assert.InDelta(t, 3.5, mean, 1e-9)
	assert.Equal(t, int64(2), count)

	// Deleting backs the value out.
	require.NoError(t, svc.Delete(bob.ID, item.ID, models.TargetItem))
	mean, count = itemRating(t, db, item.ID)
	assert.InDelta(t, 5.0, mean, 1e-9)
	assert.Equal(t, int64(1), count)

	// The last deletion resets to the default rating.
	require.NoError(t, svc.Delete(alice.ID, item.ID, models.TargetItem))
	mean, count = itemRating(t, db, item.ID)
	assert.Equal(t, config.DefaultRating(), mean)
	assert.Equal(t, int64(0), count)
}

func TestRatingAddTwiceActsAsEdit(t *testing.T) {
	db := setupDB(t)

	shop := createShopkeeper(t, db, "Ravi", "9000000001")
	item := createItem(t, db, shop.ID, "Broom", 100)
	alice := createUser(t, db, "Alice", "9000000002", models.RoleUser)

	svc := services.NewRatingService()

	_, err := svc.Add(alice.ID, item.ID, models.TargetItem, services.RatingInput{RatingValue: 2})
	require.NoError(t, err)
	_, err = svc.Add(alice.ID, item.ID, models.TargetItem, services.RatingInput{RatingValue: 5})
	require.NoError(t, err)

	mean, count := itemRating(t, db, item.ID)
	assert.Equal(t, 5.0, mean)
	assert.Equal(t, int64(1), count)

	var stored int64
	require.NoError(t, db.Model(&models.Rating{}).
		Where("user_id = ? AND target_id = ?", alice.ID, item.ID).
		Count(&stored).Error)
	assert.Equal(t, int64(1), stored)
}

func TestRatingWorkerService(t *testing.T) {
	db := setupDB(t)
	fx := seedBooking(t, db)
	svc := services.NewRatingService()

	_, err := svc.Add(fx.customer.ID, fx.link.ID, models.TargetService, services.RatingInput{RatingValue: 3})
	require.NoError(t, err)

	var link models.WorkerService
	require.NoError(t, db.First(&link, fx.link.ID).Error)
	assert.Equal(t, 3.0, link.RatingValue)
	assert.Equal(t, int64(1), link.RatingCount)
}

func TestRatingUnknownTarget(t *testing.T) {
	db := setupDB(t)
	alice := createUser(t, db, "Alice", "9000000001", models.RoleUser)

	_, err := services.NewRatingService().Add(alice.ID, 12345, models.TargetItem,
		services.RatingInput{RatingValue: 4})
	msg, ok := services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Item not found", msg)
}
