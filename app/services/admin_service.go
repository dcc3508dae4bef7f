package services

import (
	"errors"

	"github.com/chhotalabhavik/cleanout/app/jobs"
	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/app/repositories"
	"github.com/chhotalabhavik/cleanout/config"
	"github.com/chhotalabhavik/cleanout/pkg/orm"
	"gorm.io/gorm"
)

// AdminService backs the admin console: dashboard counts, provider
// searches, provider verification and the coadmin toggle with its role
// cascades.
type AdminService struct {
	users         *repositories.UserRepository
	workers       *repositories.WorkerRepository
	shopkeepers   *repositories.ShopkeeperRepository
	services      *repositories.ServiceRepository
	orders        *repositories.OrderRepository
	serviceOrders *repositories.ServiceOrderRepository
	admin         *repositories.AdminRepository
	cascades      *CascadeService
}

func NewAdminService() *AdminService {
	return &AdminService{
		users:         repositories.NewUserRepository(),
		workers:       repositories.NewWorkerRepository(),
		shopkeepers:   repositories.NewShopkeeperRepository(),
		services:      repositories.NewServiceRepository(),
		orders:        repositories.NewOrderRepository(),
		serviceOrders: repositories.NewServiceOrderRepository(),
		admin:         repositories.NewAdminRepository(),
		cascades:      NewCascadeService(),
	}
}

// Counts is the admin dashboard summary.
type Counts struct {
	TotalUsers         int64 `json:"totalUsers"`
	TotalWorkers       int64 `json:"totalWorkers"`
	TotalShopkeepers   int64 `json:"totalShopkeepers"`
	TotalItemOrders    int64 `json:"totalItemOrders"`
	TotalServiceOrders int64 `json:"totalServiceOrders"`
}

// InitialData tallies the dashboard counts.
func (s *AdminService) InitialData() (Counts, error) {
	var counts Counts
	var err error

	if counts.TotalUsers, err = s.users.CountAll(); err != nil {
		return Counts{}, err
	}
	if counts.TotalWorkers, err = s.workers.CountAll(); err != nil {
		return Counts{}, err
	}
	if counts.TotalShopkeepers, err = s.shopkeepers.CountAll(); err != nil {
		return Counts{}, err
	}
	if counts.TotalItemOrders, err = s.orders.CountOrders(); err != nil {
		return Counts{}, err
	}
	if counts.TotalServiceOrders, err = s.serviceOrders.CountOrders(); err != nil {
		return Counts{}, err
	}
	return counts, nil
}

// SearchWorkers pages workers for the console.
func (s *AdminService) SearchWorkers(f repositories.ProviderFilter, page int) ([]models.Worker, orm.Pagination, error) {
	return s.admin.SearchWorkers(f, page, config.LimitAdmin())
}

// SearchShopkeepers pages shopkeepers for the console.
func (s *AdminService) SearchShopkeepers(f repositories.ProviderFilter, page int) ([]models.Shopkeeper, orm.Pagination, error) {
	return s.admin.SearchShopkeepers(f, page, config.LimitAdmin())
}

// VerifyServiceProvider marks the worker or shopkeeper behind userID as
// verified and tells them so.
func (s *AdminService) VerifyServiceProvider(userID uint) error {
	worker, err := s.workers.FindByUserID(userID)
	switch {
	case err == nil:
		worker.IsVerified = true
		if err := s.workers.Save(&worker); err != nil {
			return err
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	default:
		shopkeeper, err := s.shopkeepers.FindByUserID(userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Fail("User not found")
		}
		if err != nil {
			return err
		}
		shopkeeper.IsVerified = true
		if err := s.shopkeepers.Save(&shopkeeper); err != nil {
			return err
		}
	}

	jobs.NotificationJob{
		UserIDs: []uint{userID},
		Purpose: jobs.PurposeVerifiedWorker,
		Message: "Your account has been verified",
	}.Dispatch()
	return nil
}

// ToggleCoadmin flips a user into or out of the COADMIN role. Promoting
// a provider strips their marketplace presence first, so no verified
// listing survives under a console account. ADMIN never changes.
func (s *AdminService) ToggleCoadmin(userID uint) (string, error) {
	user, err := s.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", Fail("User not found")
	}
	if err != nil {
		return "", err
	}

	switch user.Role {
	case models.RoleAdmin:
		return "", Fail("Admin role cannot be changed")

	case models.RoleCoadmin:
		user.Role = models.RoleUser
		return models.RoleUser, s.users.Save(&user)

	case models.RoleUser:
		user.Role = models.RoleCoadmin
		return models.RoleCoadmin, s.users.Save(&user)

	case models.RoleWorker:
		err = orm.Transaction(func(tx *gorm.DB) error {
			servicesRepo := s.services.WithTx(tx)
			own, err := servicesRepo.OwnedBy(userID)
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
			if err := servicesRepo.DeleteWorkerServicesByWorker(userID); err != nil {
				return err
			}
			if err := s.workers.WithTx(tx).DeleteLocations(userID); err != nil {
				return err
			}
			user.Role = models.RoleCoadmin
			return s.users.WithTx(tx).Save(&user)
		})
		if err != nil {
			return "", err
		}
		return models.RoleCoadmin, nil

	case models.RoleShopkeeper:
		err = orm.Transaction(func(tx *gorm.DB) error {
			if err := s.cascades.RemoveShopkeeperOfferings(tx, userID); err != nil {
				return err
			}
			user.Role = models.RoleCoadmin
			return s.users.WithTx(tx).Save(&user)
		})
		if err != nil {
			return "", err
		}
		return models.RoleCoadmin, nil
	}

	return "", Fail("User not found")
}
