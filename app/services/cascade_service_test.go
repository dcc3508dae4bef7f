package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/app/services"
	"github.com/chhotalabhavik/cleanout/pkg/orm"
)

// shopFixture builds a shop with one item and one service, plus a
// dependent worker who offers both the shop's service and their own.
type shopFixture struct {
	shop         models.User
	worker       models.User
	shopService  models.Service
	ownService   models.Service
	shopItem     models.Item
	workerRow    models.Worker
	locationID   uint
	shopLinkID   uint
	ownLinkID    uint
}

func seedShop(t *testing.T, db *gorm.DB) shopFixture {
	t.Helper()

	shop := createShopkeeper(t, db, "Ravi", "9000000001")
	worker := createWorker(t, db, "Raju", "9000000002")

	var workerRow models.Worker
	require.NoError(t, db.First(&workerRow, "user_id = ?", worker.ID).Error)
	workerRow.ShopkeeperID = &shop.ID
	workerRow.Dependency = models.DependencyDependent
	require.NoError(t, db.Save(&workerRow).Error)

	location := models.Location{WorkerID: worker.ID, Pincode: "380001"}
	require.NoError(t, db.Create(&location).Error)

	shopService := models.Service{ProviderID: shop.ID, ServiceName: "Sofa Cleaning", ServiceCategory: "Cleaning"}
	ownService := models.Service{ProviderID: worker.ID, ServiceName: "Window Cleaning", ServiceCategory: "Cleaning"}
	require.NoError(t, db.Create(&shopService).Error)
	require.NoError(t, db.Create(&ownService).Error)

	shopLink := models.WorkerService{WorkerID: worker.ID, ServiceID: shopService.ID}
	ownLink := models.WorkerService{WorkerID: worker.ID, ServiceID: ownService.ID}
	require.NoError(t, db.Create(&shopLink).Error)
	require.NoError(t, db.Create(&ownLink).Error)

	shopItem := createItem(t, db, shop.ID, "Detergent", 80)

	return shopFixture{
		shop: shop, worker: worker,
		shopService: shopService, ownService: ownService,
		shopItem: shopItem, workerRow: workerRow,
		locationID: location.ID, shopLinkID: shopLink.ID, ownLinkID: ownLink.ID,
	}
}

func TestDetachWorkerKeepsOwnServicesAndLocations(t *testing.T) {
	db := setupDB(t)
	fx := seedShop(t, db)
	cascades := services.NewCascadeService()

	require.NoError(t, orm.Transaction(func(tx *gorm.DB) error {
		return cascades.DetachWorker(tx, fx.worker.ID)
	}))

	var worker models.Worker
	require.NoError(t, db.First(&worker, "user_id = ?", fx.worker.ID).Error)
	assert.Nil(t, worker.ShopkeeperID)
	assert.Equal(t, models.DependencyNone, worker.Dependency)

	// The shop's service link is gone, the worker's own survives.
	var links []models.WorkerService
	require.NoError(t, db.Where("worker_id = ?", fx.worker.ID).Find(&links).Error)
	require.Len(t, links, 1)
	assert.Equal(t, fx.ownService.ID, links[0].ServiceID)

	var locations int64
	require.NoError(t, db.Model(&models.Location{}).
		Where("worker_id = ?", fx.worker.ID).Count(&locations).Error)
	assert.Equal(t, int64(1), locations)
}

func TestRemoveShopkeeperOfferings(t *testing.T) {
	db := setupDB(t)
	fx := seedShop(t, db)
	cascades := services.NewCascadeService()

	require.NoError(t, orm.Transaction(func(tx *gorm.DB) error {
		return cascades.RemoveShopkeeperOfferings(tx, fx.shop.ID)
	}))

	// The shop's items and services are gone from the marketplace.
	var items int64
	require.NoError(t, db.Model(&models.Item{}).
		Where("shopkeeper_id = ?", fx.shop.ID).Count(&items).Error)
	assert.Equal(t, int64(0), items)

	var svcCount int64
	require.NoError(t, db.Model(&models.Service{}).
		Where("provider_id = ?", fx.shop.ID).Count(&svcCount).Error)
	assert.Equal(t, int64(0), svcCount)

	// The dependent worker is detached but keeps their own offerings.
	var worker models.Worker
	require.NoError(t, db.First(&worker, "user_id = ?", fx.worker.ID).Error)
	assert.Nil(t, worker.ShopkeeperID)
	assert.Equal(t, models.DependencyNone, worker.Dependency)

	var links []models.WorkerService
	require.NoError(t, db.Where("worker_id = ?", fx.worker.ID).Find(&links).Error)
	require.Len(t, links, 1)
	assert.Equal(t, fx.ownService.ID, links[0].ServiceID)

	var locations int64
	require.NoError(t, db.Model(&models.Location{}).
		Where("worker_id = ?", fx.worker.ID).Count(&locations).Error)
	assert.Equal(t, int64(1), locations)
}
