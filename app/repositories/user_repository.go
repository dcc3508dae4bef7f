// Package repositories holds the thin data-access layer between services
// and the ORM. Repositories carry no business rules; multi-table units of
// work are composed by services inside orm.Transaction and passed down
// through WithTx.
package repositories

import (
	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/pkg/orm"
	"gorm.io/gorm"
)

// UserRepository handles users and their addresses.
type UserRepository struct {
	tx *gorm.DB
}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// WithTx returns a copy bound to the given transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{tx: tx}
}

func (r *UserRepository) q() *orm.Query {
	if r.tx != nil {
		return orm.Use(r.tx)
	}
	return orm.DB()
}

// FindByID fetches a user with their address.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := r.q().Preload("Address").Where("id = ?", id).First(&user)
	return user, err
}

// FindByPhone looks a user up by their login phone number.
func (r *UserRepository) FindByPhone(phone string) (models.User, error) {
	var user models.User
	err := r.q().Where("phone = ?", phone).First(&user)
	return user, err
}

// PhoneExists reports whether any account already uses phone.
func (r *UserRepository) PhoneExists(phone string) (bool, error) {
	var count int64
	err := r.q().Model(&models.User{}).Where("phone = ?", phone).Count(&count)
	return count > 0, err
}

func (r *UserRepository) Create(user *models.User) error {
	return r.q().Create(user)
}

func (r *UserRepository) Save(user *models.User) error {
	return r.q().Save(user)
}

// Delete removes the user row and its address permanently so the phone
// number can register a fresh account.
func (r *UserRepository) Delete(id uint) error {
	if err := r.q().Where("user_id = ?", id).Delete(&models.Address{}); err != nil {
		return err
	}
	return r.q().Unscoped().Where("id = ?", id).Delete(&models.User{})
}

func (r *UserRepository) CreateAddress(address *models.Address) error {
	return r.q().Create(address)
}

func (r *UserRepository) SaveAddress(address *models.Address) error {
	return r.q().Save(address)
}

// CountAll tallies every account for the admin dashboard.
func (r *UserRepository) CountAll() (int64, error) {
	var count int64
	err := r.q().Model(&models.User{}).Count(&count)
	return count, err
}

// CountByRole tallies accounts per role for the admin dashboard.
func (r *UserRepository) CountByRole(role string) (int64, error) {
	var count int64
	err := r.q().Model(&models.User{}).Where("role = ?", role).Count(&count)
	return count, err
}
