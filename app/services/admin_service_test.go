package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/app/repositories"
	"github.com/chhotalabhavik/cleanout/app/services"
)

func TestInitialDataCounts(t *testing.T) {
	db := setupDB(t)

	createUser(t, db, "Asha", "9000000001", models.RoleUser)
	createWorker(t, db, "Raju", "9000000002")
	createShopkeeper(t, db, "Ravi", "9000000003")

	counts, err := services.NewAdminService().InitialData()
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts.TotalUsers)
	assert.Equal(t, int64(1), counts.TotalWorkers)
	assert.Equal(t, int64(1), counts.TotalShopkeepers)
	assert.Equal(t, int64(0), counts.TotalItemOrders)
	assert.Equal(t, int64(0), counts.TotalServiceOrders)
}

func TestVerifyServiceProvider(t *testing.T) {
	db := setupDB(t)
	svc := services.NewAdminService()

	worker := createWorker(t, db, "Raju", "9000000001")
	shop := createShopkeeper(t, db, "Ravi", "9000000002")

	require.NoError(t, svc.VerifyServiceProvider(worker.ID))
	var workerRow models.Worker
	require.NoError(t, db.First(&workerRow, "user_id = ?", worker.ID).Error)
	assert.True(t, workerRow.IsVerified)

	require.NoError(t, svc.VerifyServiceProvider(shop.ID))
	var shopRow models.Shopkeeper
	require.NoError(t, db.First(&shopRow, "user_id = ?", shop.ID).Error)
	assert.True(t, shopRow.IsVerified)

	err := svc.VerifyServiceProvider(99999)
	msg, ok := services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "User not found", msg)
}

func TestToggleCoadminUserAndBack(t *testing.T) {
	db := setupDB(t)
	svc := services.NewAdminService()
	user := createUser(t, db, "Asha", "9000000001", models.RoleUser)

	role, err := svc.ToggleCoadmin(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCoadmin, role)

	role, err = svc.ToggleCoadmin(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, role)
}

func TestToggleCoadminAdminImmutable(t *testing.T) {
	db := setupDB(t)
	admin := createUser(t, db, "Root", "9999999999", models.RoleAdmin)

	_, err := services.NewAdminService().ToggleCoadmin(admin.ID)
	msg, ok := services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Admin role cannot be changed", msg)
}

func TestToggleCoadminStripsWorkerListings(t *testing.T) {
	db := setupDB(t)
	fx := seedShop(t, db)
	svc := services.NewAdminService()

	role, err := svc.ToggleCoadmin(fx.worker.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCoadmin, role)

	// The worker's own services, links and locations are gone.
	var ownServices int64
	require.NoError(t, db.Model(&models.Service{}).
		Where("provider_id = ?", fx.worker.ID).Count(&ownServices).Error)
	assert.Equal(t, int64(0), ownServices)

	var links int64
	require.NoError(t, db.Model(&models.WorkerService{}).
		Where("worker_id = ?", fx.worker.ID).Count(&links).Error)
	assert.Equal(t, int64(0), links)

	var locations int64
	require.NoError(t, db.Model(&models.Location{}).
		Where("worker_id = ?", fx.worker.ID).Count(&locations).Error)
	assert.Equal(t, int64(0), locations)

	// The shop's own catalogue is untouched by a worker promotion.
	var shopServices int64
	require.NoError(t, db.Model(&models.Service{}).
		Where("provider_id = ?", fx.shop.ID).Count(&shopServices).Error)
	assert.Equal(t, int64(1), shopServices)
}

func TestToggleCoadminRemovesShopOfferings(t *testing.T) {
	db := setupDB(t)
	fx := seedShop(t, db)
	svc := services.NewAdminService()

	role, err := svc.ToggleCoadmin(fx.shop.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCoadmin, role)

	var items int64
	require.NoError(t, db.Model(&models.Item{}).
		Where("shopkeeper_id = ?", fx.shop.ID).Count(&items).Error)
	assert.Equal(t, int64(0), items)

	var worker models.Worker
	require.NoError(t, db.First(&worker, "user_id = ?", fx.worker.ID).Error)
	assert.Nil(t, worker.ShopkeeperID)
	assert.Equal(t, models.DependencyNone, worker.Dependency)
}

func TestSearchWorkersByPincode(t *testing.T) {
	db := setupDB(t)

	near := createWorker(t, db, "Raju", "9000000001")
	far := createWorker(t, db, "Shyam", "9000000002")
	require.NoError(t, db.Create(&models.Address{UserID: near.ID, Society: "A", Area: "B",
		Pincode: "380001", City: "Ahmedabad", State: "Gujarat"}).Error)
	require.NoError(t, db.Create(&models.Address{UserID: far.ID, Society: "A", Area: "B",
		Pincode: "110001", City: "Delhi", State: "Delhi"}).Error)

	workers, pagination, err := services.NewAdminService().SearchWorkers(
		repositories.ProviderFilter{Pincode: "380001"}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pagination.Total)
	require.Len(t, workers, 1)
	assert.Equal(t, near.ID, workers[0].UserID)
}
