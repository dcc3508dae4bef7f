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

// WorkerAccountService covers WORKER accounts: registration, profile,
// deletion and the shop-affiliation workflow.
type WorkerAccountService struct {
	users    *repositories.UserRepository
	workers  *repositories.WorkerRepository
	shops    *repositories.ShopkeeperRepository
	services *repositories.ServiceRepository
	cascades *CascadeService
}

func NewWorkerAccountService() *WorkerAccountService {
	return &WorkerAccountService{
		users:    repositories.NewUserRepository(),
		workers:  repositories.NewWorkerRepository(),
		shops:    repositories.NewShopkeeperRepository(),
		services: repositories.NewServiceRepository(),
		cascades: NewCascadeService(),
	}
}

// RegisterWorkerInput carries the multipart registration form; the file
// fields hold paths already written by the storage layer.
type RegisterWorkerInput struct {
	UserName       string   `json:"userName" validate:"required,max=255"`
	Phone          string   `json:"phone"    validate:"required,digits=10"`
	Password       string   `json:"password" validate:"required,min=6"`
	Society        string   `json:"society"  validate:"required"`
	Area           string   `json:"area"     validate:"required"`
	Pincode        string   `json:"pincode"  validate:"required,digits=6"`
	City           string   `json:"city"     validate:"required"`
	State          string   `json:"state"    validate:"required"`
	Pincodes       []string `json:"pincodes" validate:"required"`
	ProfilePicture string   `json:"profilePicture"`
	Proof1         string   `json:"proof1"`
	Proof2         string   `json:"proof2"`
}

// Register creates user, address, worker row and locations in one
// transaction, then asks the admins to verify the papers.
func (s *WorkerAccountService) Register(in RegisterWorkerInput) (models.User, error) {
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
		Role:     models.RoleWorker,
	}

	err = orm.Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		workers := s.workers.WithTx(tx)

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
		worker := models.Worker{
			UserID:         user.ID,
			ProfilePicture: in.ProfilePicture,
			Proof1:         in.Proof1,
			Proof2:         in.Proof2,
			Dependency:     models.DependencyNone,
		}
		if err := workers.Create(&worker); err != nil {
			return err
		}
		return workers.ReplaceLocations(user.ID, in.Pincodes)
	})
	if err != nil {
		return models.User{}, err
	}

	jobs.NotificationJob{
		Purpose: jobs.PurposeVerifyWorker,
		Message: user.UserName + " registered as a worker and awaits verification",
	}.Dispatch()
	return user, nil
}

// Profile fetches the worker with user, address and locations.
func (s *WorkerAccountService) Profile(workerID uint) (models.Worker, error) {
	worker, err := s.workers.FindByUserID(workerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Worker{}, Fail("Worker not found")
	}
	return worker, err
}

// UpdateWorkerInput edits profile, papers and serviceable pincodes.
type UpdateWorkerInput struct {
	UpdateUserInput
	Pincodes       []string `json:"pincodes" validate:"required"`
	ProfilePicture string   `json:"profilePicture"`
	Proof1         string   `json:"proof1"`
	Proof2         string   `json:"proof2"`
}

// Update edits the account and worker rows. New papers reset the
// verification flag.
func (s *WorkerAccountService) Update(workerID uint, in UpdateWorkerInput, adminOverride bool) (models.Worker, error) {
	worker, err := s.workers.FindByUserID(workerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Worker{}, Fail("Worker not found")
	}
	if err != nil {
		return models.Worker{}, err
	}
	if !adminOverride && !auth.CheckPassword(worker.User.Password, in.Password) {
		return models.Worker{}, Fail("Incorrect password")
	}

	err = orm.Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		workers := s.workers.WithTx(tx)

		worker.User.UserName = in.UserName
		if in.NewPassword != "" {
			hash, err := auth.HashPassword(in.NewPassword)
			if err != nil {
				return err
			}
			worker.User.Password = hash
		}
		if err := users.Save(worker.User); err != nil {
			return err
		}

		if worker.User.Address == nil {
			worker.User.Address = &models.Address{UserID: worker.UserID}
		}
		worker.User.Address.Society = in.Society
		worker.User.Address.Area = in.Area
		worker.User.Address.Pincode = in.Pincode
		worker.User.Address.City = in.City
		worker.User.Address.State = in.State
		if err := users.SaveAddress(worker.User.Address); err != nil {
			return err
		}

		if in.ProfilePicture != "" {
			worker.ProfilePicture = in.ProfilePicture
		}
		if in.Proof1 != "" || in.Proof2 != "" {
			if in.Proof1 != "" {
				worker.Proof1 = in.Proof1
			}
			if in.Proof2 != "" {
				worker.Proof2 = in.Proof2
			}
			worker.IsVerified = false
		}
		if err := workers.Save(&worker); err != nil {
			return err
		}

		return workers.ReplaceLocations(workerID, in.Pincodes)
	})
	if err != nil {
		return models.Worker{}, err
	}
	return worker, nil
}

// Delete removes the worker account entirely: own services with their
// links, locations, worker row and the underlying user.
func (s *WorkerAccountService) Delete(workerID uint) error {
	_, err := s.workers.FindByUserID(workerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Fail("Worker not found")
	}
	if err != nil {
		return err
	}

	return orm.Transaction(func(tx *gorm.DB) error {
		servicesRepo := s.services.WithTx(tx)
		workers := s.workers.WithTx(tx)

		own, err := servicesRepo.OwnedBy(workerID)
		if err != nil {
			return err
		}
		for _, service := range own {
			if err := servicesRepo.DeleteWorkerServicesByService(service.ID); err != nil {
				return err
			}
			if err := servicesRepo.Delete(service.ID); err != nil {
				return err
			}
		}
		if err := servicesRepo.DeleteWorkerServicesByWorker(workerID); err != nil {
			return err
		}
		if err := workers.DeleteLocations(workerID); err != nil {
			return err
		}
		if err := workers.Delete(workerID); err != nil {
			return err
		}
		return s.users.WithTx(tx).Delete(workerID)
	})
}

// LeaveShop is the worker-initiated detachment.
func (s *WorkerAccountService) LeaveShop(workerID uint) error {
	worker, err := s.workers.FindByUserID(workerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Fail("Worker not found")
	}
	if err != nil {
		return err
	}
	if worker.Dependency != models.DependencyDependent || worker.ShopkeeperID == nil {
		return Fail("Invalid request")
	}

	shopkeeperID := *worker.ShopkeeperID
	err = orm.Transaction(func(tx *gorm.DB) error {
		return s.cascades.DetachWorker(tx, workerID)
	})
	if err != nil {
		return err
	}

	jobs.NotificationJob{
		UserIDs: []uint{shopkeeperID},
		Purpose: jobs.PurposeLeftShop,
		Message: worker.User.UserName + " has left the shop.",
	}.Dispatch()
	return nil
}

// ShopRequest returns the pending shop invitation, if any.
func (s *WorkerAccountService) ShopRequest(workerID uint) (models.Shopkeeper, error) {
	worker, err := s.workers.FindByUserID(workerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Shopkeeper{}, Fail("Worker not found")
	}
	if err != nil {
		return models.Shopkeeper{}, err
	}
	if worker.Dependency != models.DependencyRequested || worker.ShopkeeperID == nil {
		return models.Shopkeeper{}, Fail("Request not found")
	}

	shop, err := s.shops.FindByUserID(*worker.ShopkeeperID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Shopkeeper{}, Fail("Request not found")
	}
	return shop, err
}

// RespondToShopRequest accepts or rejects a pending invitation. Accepting
// makes the worker dependent and fans the shop's services out to them.
func (s *WorkerAccountService) RespondToShopRequest(workerID uint, accept bool) error {
	worker, err := s.workers.FindByUserID(workerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Fail("Worker not found")
	}
	if err != nil {
		return err
	}
	if worker.Dependency != models.DependencyRequested || worker.ShopkeeperID == nil {
		return Fail("Cannot accepted")
	}

	shopkeeperID := *worker.ShopkeeperID
	if _, err := s.shops.FindByUserID(shopkeeperID); errors.Is(err, gorm.ErrRecordNotFound) {
		return Fail("Shopkeeper not found")
	} else if err != nil {
		return err
	}

	if !accept {
		worker.ShopkeeperID = nil
		worker.Dependency = models.DependencyNone
		if err := s.workers.Save(&worker); err != nil {
			return err
		}
		jobs.NotificationJob{
			UserIDs: []uint{shopkeeperID},
			Purpose: jobs.PurposeRequestRejected,
			Message: worker.User.UserName + " has rejected your request.",
		}.Dispatch()
		return nil
	}

	err = orm.Transaction(func(tx *gorm.DB) error {
		workers := s.workers.WithTx(tx)
		servicesRepo := s.services.WithTx(tx)

		worker.Dependency = models.DependencyDependent
		if err := workers.Save(&worker); err != nil {
			return err
		}

		shopServices, err := servicesRepo.OwnedBy(shopkeeperID)
		if err != nil {
			return err
		}
		for _, service := range shopServices {
			link := models.WorkerService{WorkerID: workerID, ServiceID: service.ID}
			if err := servicesRepo.CreateWorkerService(&link); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	jobs.NotificationJob{
		UserIDs: []uint{shopkeeperID},
		Purpose: jobs.PurposeRequestAccepted,
		Message: worker.User.UserName + " has accepted your request",
	}.Dispatch()
	return nil
}
