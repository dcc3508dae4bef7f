package services

import (
	"errors"

	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/app/repositories"
	"github.com/chhotalabhavik/cleanout/config"
	"github.com/chhotalabhavik/cleanout/pkg/orm"
	"gorm.io/gorm"
)

// ServiceCatalogService covers provider-side service CRUD, the services
// storefront and the admin category catalogue.
type ServiceCatalogService struct {
	users      *repositories.UserRepository
	workers    *repositories.WorkerRepository
	services   *repositories.ServiceRepository
	categories *repositories.CategoryRepository
}

func NewServiceCatalogService() *ServiceCatalogService {
	return &ServiceCatalogService{
		users:      repositories.NewUserRepository(),
		workers:    repositories.NewWorkerRepository(),
		services:   repositories.NewServiceRepository(),
		categories: repositories.NewCategoryRepository(),
	}
}

// Get fetches one service with its sub-categories.
func (s *ServiceCatalogService) Get(serviceID uint) (models.Service, error) {
	service, err := s.services.FindByID(serviceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Service{}, Fail("Service not found")
	}
	return service, err
}

// GetWorkerService fetches one storefront link with worker and service.
func (s *ServiceCatalogService) GetWorkerService(id uint) (models.WorkerService, error) {
	ws, err := s.services.FindWorkerService(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.WorkerService{}, Fail("Worker service not found")
	}
	return ws, err
}

// OwnedBy lists a provider's services.
func (s *ServiceCatalogService) OwnedBy(providerID uint) ([]models.Service, error) {
	return s.services.OwnedBy(providerID)
}

// WorkerServicesOf lists a worker's storefront links.
func (s *ServiceCatalogService) WorkerServicesOf(workerID uint) ([]models.WorkerService, error) {
	return s.services.WorkerServicesOf(workerID)
}

// ServiceInput carries the add/update form.
type ServiceInput struct {
	ServiceName     string                      `json:"serviceName"     validate:"required,max=255"`
	ServiceCategory string                      `json:"serviceCategory" validate:"required"`
	Description     string                      `json:"description"`
	SubCategories   []models.ServiceSubCategory `json:"subCategories"   validate:"required"`
}

// Add creates a service and fans the worker-service links out: a worker
// provider gets a link to themselves, a shopkeeper provider links every
// dependent worker.
func (s *ServiceCatalogService) Add(providerID uint, in ServiceInput) (models.Service, error) {
	provider, err := s.users.FindByID(providerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Service{}, Fail("Service provider not found")
	}
	if err != nil {
		return models.Service{}, err
	}

	service := models.Service{
		ProviderID:      providerID,
		ServiceName:     in.ServiceName,
		ServiceCategory: in.ServiceCategory,
		Description:     in.Description,
		SubCategories:   in.SubCategories,
	}

	err = orm.Transaction(func(tx *gorm.DB) error {
		servicesRepo := s.services.WithTx(tx)
		if err := servicesRepo.Create(&service); err != nil {
			return err
		}

		var workerIDs []uint
		switch provider.Role {
		case models.RoleWorker:
			workerIDs = []uint{providerID}
		case models.RoleShopkeeper:
			dependent, err := s.workers.WithTx(tx).OfShop(providerID)
			if err != nil {
				return err
			}
			for _, w := range dependent {
				workerIDs = append(workerIDs, w.UserID)
			}
		default:
			return Fail("Service provider not found")
		}

		for _, workerID := range workerIDs {
			link := models.WorkerService{WorkerID: workerID, ServiceID: service.ID}
			if err := servicesRepo.CreateWorkerService(&link); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Service{}, err
	}
	return service, nil
}

// Update edits a service; only its provider may call it.
func (s *ServiceCatalogService) Update(providerID, serviceID uint, in ServiceInput) (models.Service, error) {
	service, err := s.services.FindByID(serviceID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && service.ProviderID != providerID) {
		return models.Service{}, Fail("Service not found")
	}
	if err != nil {
		return models.Service{}, err
	}

	err = orm.Transaction(func(tx *gorm.DB) error {
		servicesRepo := s.services.WithTx(tx)
		service.ServiceName = in.ServiceName
		service.ServiceCategory = in.ServiceCategory
		service.Description = in.Description
		service.SubCategories = nil
		if err := servicesRepo.Save(&service); err != nil {
			return err
		}
		return servicesRepo.ReplaceSubCategories(serviceID, in.SubCategories)
	})
	if err != nil {
		return models.Service{}, err
	}
	service.SubCategories = in.SubCategories
	return service, nil
}

// Delete removes a service and every worker-service link pointing at it.
func (s *ServiceCatalogService) Delete(providerID, serviceID uint) error {
	service, err := s.services.FindByID(serviceID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && service.ProviderID != providerID) {
		return Fail("Service not found")
	}
	if err != nil {
		return err
	}

	return orm.Transaction(func(tx *gorm.DB) error {
		servicesRepo := s.services.WithTx(tx)
		if err := servicesRepo.DeleteWorkerServicesByService(serviceID); err != nil {
			return err
		}
		return servicesRepo.Delete(serviceID)
	})
}

// Store pages the services storefront for a pincode.
func (s *ServiceCatalogService) Store(pincode, category, sortBy string, subCategories []string, page int) ([]models.WorkerService, orm.Pagination, error) {
	return s.services.Store(pincode, category, sortBy, subCategories, page, config.LimitServices())
}

// ------------------- categories -------------------

// Categories lists the storefront category catalogue.
func (s *ServiceCatalogService) Categories() ([]models.ServiceCategory, error) {
	return s.categories.All()
}

// Category fetches one category.
func (s *ServiceCatalogService) Category(id uint) (models.ServiceCategory, error) {
	category, err := s.categories.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ServiceCategory{}, Fail("Service category not found")
	}
	return category, err
}

// CategoryInput carries the admin category form; Image is a storage path.
type CategoryInput struct {
	Category      string                       `json:"category" validate:"required,max=100"`
	Image         string                       `json:"image"`
	SubCategories []models.CategorySubCategory `json:"subCategories"`
}

// AddCategory creates a category with its variants.
func (s *ServiceCatalogService) AddCategory(in CategoryInput) (models.ServiceCategory, error) {
	category := models.ServiceCategory{
		Category:      in.Category,
		Image:         in.Image,
		SubCategories: in.SubCategories,
	}
	if err := s.categories.Create(&category); err != nil {
		return models.ServiceCategory{}, err
	}
	return category, nil
}

// UpdateCategory edits a category and swaps its variants.
func (s *ServiceCatalogService) UpdateCategory(id uint, in CategoryInput) (models.ServiceCategory, error) {
	category, err := s.categories.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ServiceCategory{}, Fail("Service category not found")
	}
	if err != nil {
		return models.ServiceCategory{}, err
	}

	err = orm.Transaction(func(tx *gorm.DB) error {
		categories := s.categories.WithTx(tx)
		category.Category = in.Category
		if in.Image != "" {
			category.Image = in.Image
		}
		category.SubCategories = nil
		if err := categories.Save(&category); err != nil {
			return err
		}
		return categories.ReplaceSubCategories(id, in.SubCategories)
	})
	if err != nil {
		return models.ServiceCategory{}, err
	}
	category.SubCategories = in.SubCategories
	return category, nil
}

// DeleteCategory removes a category with its variants.
func (s *ServiceCatalogService) DeleteCategory(id uint) error {
	if _, err := s.categories.FindByID(id); errors.Is(err, gorm.ErrRecordNotFound) {
		return Fail("Service category not found")
	} else if err != nil {
		return err
	}
	return s.categories.Delete(id)
}
