package seeders

import (
	"fmt"

	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/config"
	"github.com/chhotalabhavik/cleanout/pkg/auth"
	"gorm.io/gorm"
)

func init() {
	Register("admin", SeedAdmin)
}

// SeedAdmin creates the administrator account from ADMIN_NAME,
// ADMIN_PHONE and ADMIN_PASSWORD. Idempotent: an existing row with the
// admin phone is left untouched.
func SeedAdmin(db *gorm.DB) error {
	phone := config.AdminPhone()
	if phone == "" {
		return fmt.Errorf("ADMIN_PHONE is not set")
	}

	var count int64
	if err := db.Model(&models.User{}).Where("phone = ?", phone).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(config.AdminPassword())
	if err != nil {
		return err
	}

	admin := models.User{
		UserName: config.AdminName(),
		Phone:    phone,
		Password: hash,
		Role:     models.RoleAdmin,
	}
	return db.Create(&admin).Error
}
