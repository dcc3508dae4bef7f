package services_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/pkg/database"
)

var dbSeq atomic.Int64

// setupDB opens a fresh in-memory database for one test and points the
// global connection at it.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{}, &models.Address{}, &models.Worker{}, &models.Shopkeeper{},
		&models.Location{}, &models.Item{}, &models.CartItemPack{},
		&models.ItemOrder{}, &models.OrderItemPack{},
		&models.Service{}, &models.ServiceSubCategory{}, &models.WorkerService{},
		&models.ServiceOrder{}, &models.Rating{},
		&models.ServiceCategory{}, &models.CategorySubCategory{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, phone, role string) models.User {
	t.Helper()
	user := models.User{UserName: name, Phone: phone, Password: "x", Role: role}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createShopkeeper(t *testing.T, db *gorm.DB, name, phone string) models.User {
	t.Helper()
	user := createUser(t, db, name, phone, models.RoleShopkeeper)
	shop := models.Shopkeeper{UserID: user.ID, ShopName: name + " Shop"}
	if err := db.Create(&shop).Error; err != nil {
		t.Fatalf("create shopkeeper: %v", err)
	}
	return user
}

func createWorker(t *testing.T, db *gorm.DB, name, phone string) models.User {
	t.Helper()
	user := createUser(t, db, name, phone, models.RoleWorker)
	worker := models.Worker{UserID: user.ID, Dependency: models.DependencyNone}
	if err := db.Create(&worker).Error; err != nil {
		t.Fatalf("create worker: %v", err)
	}
	return user
}

func createItem(t *testing.T, db *gorm.DB, shopkeeperID uint, name string, price float64) models.Item {
	t.Helper()
	item := models.Item{ShopkeeperID: shopkeeperID, ItemName: name, Price: price, IsAvailable: true}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item
}
