package services

import (
	"errors"

	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/app/repositories"
	"github.com/chhotalabhavik/cleanout/pkg/auth"
	"github.com/chhotalabhavik/cleanout/pkg/orm"
	"gorm.io/gorm"
)

// UserService covers plain USER accounts: registration, profile and
// deletion.
type UserService struct {
	users *repositories.UserRepository
	carts *repositories.CartRepository
}

func NewUserService() *UserService {
	return &UserService{
		users: repositories.NewUserRepository(),
		carts: repositories.NewCartRepository(),
	}
}

// RegisterUserInput carries the registration form.
type RegisterUserInput struct {
	UserName string `json:"userName" validate:"required,max=255"`
	Phone    string `json:"phone"    validate:"required,digits=10"`
	Password string `json:"password" validate:"required,min=6"`
	Society  string `json:"society"  validate:"required"`
	Area     string `json:"area"     validate:"required"`
	Pincode  string `json:"pincode"  validate:"required,digits=6"`
	City     string `json:"city"     validate:"required"`
	State    string `json:"state"    validate:"required"`
}

// Register creates the user with their address in one transaction.
func (s *UserService) Register(in RegisterUserInput) (models.User, error) {
	exists, err := s.users.PhoneExists(in.Phone)
	if err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, Fail("Registered phone number already")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		UserName: in.UserName,
		Phone:    in.Phone,
		Password: hash,
		Role:     models.RoleUser,
	}

	err = orm.Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		if err := users.Create(&user); err != nil {
			return err
		}
		address := models.Address{
			UserID:  user.ID,
			Society: in.Society,
			Area:    in.Area,
			Pincode: in.Pincode,
			City:    in.City,
			State:   in.State,
		}
		return users.CreateAddress(&address)
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Profile fetches a user with their address.
func (s *UserService) Profile(userID uint) (models.User, error) {
	user, err := s.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, Fail("User not found")
	}
	return user, err
}

// UpdateUserInput carries a profile edit. Password confirms identity
// unless an ADMIN or COADMIN caller overrides; NewPassword is optional.
type UpdateUserInput struct {
	UserName    string `json:"userName" validate:"required,max=255"`
	Password    string `json:"password"`
	NewPassword string `json:"newPassword"`
	Society     string `json:"society"  validate:"required"`
	Area        string `json:"area"     validate:"required"`
	Pincode     string `json:"pincode"  validate:"required,digits=6"`
	City        string `json:"city"     validate:"required"`
	State       string `json:"state"    validate:"required"`
}

// Update edits name, address and optionally the password. adminOverride
// must only be set when the caller's token carries ADMIN or COADMIN.
func (s *UserService) Update(userID uint, in UpdateUserInput, adminOverride bool) (models.User, error) {
	user, err := s.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, Fail("User not found")
	}
	if err != nil {
		return models.User{}, err
	}

	if !adminOverride && !auth.CheckPassword(user.Password, in.Password) {
		return models.User{}, Fail("Password incorrect")
	}

	user.UserName = in.UserName
	if in.NewPassword != "" {
		hash, err := auth.HashPassword(in.NewPassword)
		if err != nil {
			return models.User{}, err
		}
		user.Password = hash
	}

	err = orm.Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		if err := users.Save(&user); err != nil {
			return err
		}
		if user.Address == nil {
			user.Address = &models.Address{UserID: user.ID}
		}
		user.Address.Society = in.Society
		user.Address.Area = in.Area
		user.Address.Pincode = in.Pincode
		user.Address.City = in.City
		user.Address.State = in.State
		return users.SaveAddress(user.Address)
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Delete removes the account with its address and cart.
func (s *UserService) Delete(userID uint) error {
	_, err := s.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Fail("User not found")
	}
	if err != nil {
		return err
	}

	return orm.Transaction(func(tx *gorm.DB) error {
		if err := s.carts.WithTx(tx).Clear(userID); err != nil {
			return err
		}
		return s.users.WithTx(tx).Delete(userID)
	})
}

// Address fetches just the delivery address.
func (s *UserService) Address(userID uint) (models.Address, error) {
	user, err := s.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && user.Address == nil) {
		return models.Address{}, Fail("Address not found")
	}
	if err != nil {
		return models.Address{}, err
	}
	return *user.Address, nil
}
