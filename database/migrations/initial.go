package migrations

import (
	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/pkg/migration"
	"github.com/chhotalabhavik/cleanout/pkg/queue"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260301000000_create_accounts_tables", &CreateAccountsTables{})
	migration.Register("20260301000001_create_catalog_tables", &CreateCatalogTables{})
	migration.Register("20260301000002_create_order_tables", &CreateOrderTables{})
	migration.Register("20260301000003_create_rating_tables", &CreateRatingTables{})
	migration.Register("20260301000004_create_category_tables", &CreateCategoryTables{})
	migration.Register("20260301000005_create_notifications_table", &CreateNotificationsTable{})
	migration.Register("20260301000006_create_failed_jobs_table", &CreateFailedJobsTable{})
}

// -------- 0000: users, addresses, workers, shopkeepers, locations --------

type CreateAccountsTables struct{}

func (m *CreateAccountsTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Worker{},
		&models.Shopkeeper{},
		&models.Location{},
	)
}

func (m *CreateAccountsTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("locations", "shopkeepers", "workers", "addresses", "users")
}

// -------- 0001: items, cart, services --------

type CreateCatalogTables struct{}

func (m *CreateCatalogTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Item{},
		&models.CartItemPack{},
		&models.Service{},
		&models.ServiceSubCategory{},
		&models.WorkerService{},
	)
}

func (m *CreateCatalogTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(
		"worker_services", "service_sub_categories", "services",
		"cart_item_packs", "items",
	)
}

// -------- 0002: item orders, packs, service orders --------

type CreateOrderTables struct{}

func (m *CreateOrderTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.ItemOrder{},
		&models.OrderItemPack{},
		&models.ServiceOrder{},
	)
}

func (m *CreateOrderTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("service_orders", "order_item_packs", "item_orders")
}

// -------- 0003: ratings --------

type CreateRatingTables struct{}

func (m *CreateRatingTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Rating{})
}

func (m *CreateRatingTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("ratings")
}

// -------- 0004: service categories --------

type CreateCategoryTables struct{}

func (m *CreateCategoryTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.ServiceCategory{}, &models.CategorySubCategory{})
}

func (m *CreateCategoryTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("category_sub_categories", "service_categories")
}

// -------- 0005: notifications --------

type CreateNotificationsTable struct{}

func (m *CreateNotificationsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Notification{})
}

func (m *CreateNotificationsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("notifications")
}

// -------- 0006: failed jobs ledger --------

type CreateFailedJobsTable struct{}

func (m *CreateFailedJobsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&queue.FailedJobRecord{})
}

func (m *CreateFailedJobsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("failed_jobs")
}
