package services

import (
	"errors"

	"github.com/chhotalabhavik/cleanout/app/jobs"
	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/app/repositories"
	"github.com/chhotalabhavik/cleanout/pkg/auth"
	"github.com/chhotalabhavik/cleanout/pkg/orm"
	"gorm.io/gorm"
)

// ShopkeeperAccountService covers SHOPKEEPER accounts and the shop's side
// of the worker-affiliation workflow.
type ShopkeeperAccountService struct {
	users    *repositories.UserRepository
	workers  *repositories.WorkerRepository
	shops    *repositories.ShopkeeperRepository
	cascades *CascadeService
}

func NewShopkeeperAccountService() *ShopkeeperAccountService {
	return &ShopkeeperAccountService{
		users:    repositories.NewUserRepository(),
		workers:  repositories.NewWorkerRepository(),
		shops:    repositories.NewShopkeeperRepository(),
		cascades: NewCascadeService(),
	}
}

// RegisterShopkeeperInput carries the multipart registration form; proofs
// hold storage paths already written by the controller.
type RegisterShopkeeperInput struct {
	UserName string `json:"userName" validate:"required,max=255"`
	Phone    string `json:"phone"    validate:"required,digits=10"`
	Password string `json:"password" validate:"required,min=6"`
	ShopName string `json:"shopName" validate:"required,max=255"`
	Society  string `json:"society"  validate:"required"`
	Area     string `json:"area"     validate:"required"`
	Pincode  string `json:"pincode"  validate:"required,digits=6"`
	City     string `json:"city"     validate:"required"`
	State    string `json:"state"    validate:"required"`
	Proof1   string `json:"proof1"`
	Proof2   string `json:"proof2"`
}

// Register creates user, address and shopkeeper rows in one transaction.
func (s *ShopkeeperAccountService) Register(in RegisterShopkeeperInput) (models.User, error) {
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
		Role:     models.RoleShopkeeper,
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
		if err := users.CreateAddress(&address); err != nil {
			return err
		}
		shop := models.Shopkeeper{
			UserID:   user.ID,
			ShopName: in.ShopName,
			Proof1:   in.Proof1,
			Proof2:   in.Proof2,
		}
		return s.shops.WithTx(tx).Create(&shop)
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Profile fetches the shopkeeper with user and address.
func (s *ShopkeeperAccountService) Profile(shopkeeperID uint) (models.Shopkeeper, error) {
	shop, err := s.shops.FindByUserID(shopkeeperID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Shopkeeper{}, Fail("Shopkeeper not found")
	}
	return shop, err
}

// UpdateShopkeeperInput edits the shop profile. New papers reset the
// verification flag.
type UpdateShopkeeperInput struct {
	UpdateUserInput
	ShopName string `json:"shopName" validate:"required,max=255"`
	Proof1   string `json:"proof1"`
	Proof2   string `json:"proof2"`
}

// Update edits the account and shop rows.
func (s *ShopkeeperAccountService) Update(shopkeeperID uint, in UpdateShopkeeperInput, adminOverride bool) (models.Shopkeeper, error) {
	shop, err := s.shops.FindByUserID(shopkeeperID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Shopkeeper{}, Fail("Shopkeeper not found")
	}
	if err != nil {
		return models.Shopkeeper{}, err
	}
	if !adminOverride && !auth.CheckPassword(shop.User.Password, in.Password) {
		return models.Shopkeeper{}, Fail("Incorrect password")
	}

	err = orm.Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)

		shop.User.UserName = in.UserName
		if in.NewPassword != "" {
			hash, err := auth.HashPassword(in.NewPassword)
			if err != nil {
				return err
			}
			shop.User.Password = hash
		}
		if err := users.Save(shop.User); err != nil {
			return err
		}

		if shop.User.Address == nil {
			shop.User.Address = &models.Address{UserID: shop.UserID}
		}
		shop.User.Address.Society = in.Society
		shop.User.Address.Area = in.Area
		shop.User.Address.Pincode = in.Pincode
		shop.User.Address.City = in.City
		shop.User.Address.State = in.State
		if err := users.SaveAddress(shop.User.Address); err != nil {
			return err
		}

		shop.ShopName = in.ShopName
		if in.Proof1 != "" || in.Proof2 != "" {
			if in.Proof1 != "" {
				shop.Proof1 = in.Proof1
			}
			if in.Proof2 != "" {
				shop.Proof2 = in.Proof2
			}
			shop.IsVerified = false
		}
		return s.shops.WithTx(tx).Save(&shop)
	})
	if err != nil {
		return models.Shopkeeper{}, err
	}
	return shop, nil
}

// Delete removes the shop account: offerings cascade first so no worker
// keeps serving a deleted service, then the shop and user rows go.
func (s *ShopkeeperAccountService) Delete(shopkeeperID uint) error {
	_, err := s.shops.FindByUserID(shopkeeperID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Fail("Shopkeeper not found")
	}
	if err != nil {
		return err
	}

	return orm.Transaction(func(tx *gorm.DB) error {
		if err := s.cascades.RemoveShopkeeperOfferings(tx, shopkeeperID); err != nil {
			return err
		}
		if err := s.shops.WithTx(tx).Delete(shopkeeperID); err != nil {
			return err
		}
		return s.users.WithTx(tx).Delete(shopkeeperID)
	})
}

// Workers lists the shop's dependent workers.
func (s *ShopkeeperAccountService) Workers(shopkeeperID uint) ([]models.Worker, error) {
	return s.workers.OfShop(shopkeeperID)
}

// AddWorker invites a worker (looked up by phone) to join the shop.
func (s *ShopkeeperAccountService) AddWorker(shopkeeperID uint, phone string) error {
	shop, err := s.shops.FindByUserID(shopkeeperID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Fail("Shopkeeper not found")
	}
	if err != nil {
		return err
	}

	user, err := s.users.FindByPhone(phone)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && user.Role != models.RoleWorker) {
		return Fail("Worker not found")
	}
	if err != nil {
		return err
	}

	worker, err := s.workers.FindByUserID(user.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Fail("Worker not found")
	}
	if err != nil {
		return err
	}

	switch worker.Dependency {
	case models.DependencyDependent:
		return Fail("Worker is already under a shopkeeper")
	case models.DependencyRequested:
		return Fail("Worker is already requested")
	}

	worker.ShopkeeperID = &shop.UserID
	worker.Dependency = models.DependencyRequested
	if err := s.workers.Save(&worker); err != nil {
		return err
	}

	jobs.NotificationJob{
		UserIDs: []uint{worker.UserID},
		Purpose: jobs.PurposeVerifyWorker,
		Message: shop.ShopName + " has requested you to join their shop",
	}.Dispatch()
	return nil
}

// RemoveWorker is the shop-initiated detachment of a dependent worker.
// Returns the removed worker's name for the confirmation message.
func (s *ShopkeeperAccountService) RemoveWorker(shopkeeperID, workerID uint) (string, error) {
	if _, err := s.shops.FindByUserID(shopkeeperID); errors.Is(err, gorm.ErrRecordNotFound) {
		return "", Fail("Shopkeeper not found")
	} else if err != nil {
		return "", err
	}

	worker, err := s.workers.FindByUserID(workerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", Fail("Worker not found")
	}
	if err != nil {
		return "", err
	}
	if worker.ShopkeeperID == nil || *worker.ShopkeeperID != shopkeeperID {
		return "", Fail("Worker not found")
	}

	err = orm.Transaction(func(tx *gorm.DB) error {
		return s.cascades.DetachWorker(tx, workerID)
	})
	if err != nil {
		return "", err
	}

	jobs.NotificationJob{
		UserIDs: []uint{workerID},
		Purpose: jobs.PurposeRemovedShop,
		Message: "You have been removed from shop",
	}.Dispatch()
	return worker.User.UserName, nil
}
