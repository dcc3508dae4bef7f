package repositories

import (
	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/pkg/orm"
	"gorm.io/gorm"
)

// ServiceRepository handles services, their sub-categories and the
// worker-service links shown on the services storefront.
type ServiceRepository struct {
	tx *gorm.DB
}

func NewServiceRepository() *ServiceRepository {
	return &ServiceRepository{}
}

func (r *ServiceRepository) WithTx(tx *gorm.DB) *ServiceRepository {
	return &ServiceRepository{tx: tx}
}

func (r *ServiceRepository) q() *orm.Query {
	if r.tx != nil {
		return orm.Use(r.tx)
	}
	return orm.DB()
}

func (r *ServiceRepository) FindByID(serviceID uint) (models.Service, error) {
	var service models.Service
	err := r.q().Preload("SubCategories").Where("id = ?", serviceID).First(&service)
	return service, err
}

func (r *ServiceRepository) Create(service *models.Service) error {
	return r.q().Create(service)
}

func (r *ServiceRepository) Save(service *models.Service) error {
	return r.q().Save(service)
}

// Delete removes the service with its sub-categories.
func (r *ServiceRepository) Delete(serviceID uint) error {
	if err := r.q().Where("service_id = ?", serviceID).Delete(&models.ServiceSubCategory{}); err != nil {
		return err
	}
	return r.q().Where("id = ?", serviceID).Delete(&models.Service{})
}

// ReplaceSubCategories swaps the service's priced variants.
func (r *ServiceRepository) ReplaceSubCategories(serviceID uint, subs []models.ServiceSubCategory) error {
	if err := r.q().Where("service_id = ?", serviceID).Delete(&models.ServiceSubCategory{}); err != nil {
		return err
	}
	for i := range subs {
		subs[i].ID = 0
		subs[i].ServiceID = serviceID
		if err := r.q().Create(&subs[i]); err != nil {
			return err
		}
	}
	return nil
}

// OwnedBy returns every service a provider offers.
func (r *ServiceRepository) OwnedBy(providerID uint) ([]models.Service, error) {
	var services []models.Service
	err := r.q().Preload("SubCategories").Where("provider_id = ?", providerID).Get(&services)
	return services, err
}

// ------------------- worker-service links -------------------

func (r *ServiceRepository) FindWorkerService(id uint) (models.WorkerService, error) {
	var ws models.WorkerService
	err := r.q().Preload("Service").Preload("Service.SubCategories").
		Preload("Worker").Preload("Worker.User").
		Where("id = ?", id).First(&ws)
	return ws, err
}

func (r *ServiceRepository) CreateWorkerService(ws *models.WorkerService) error {
	return r.q().Create(ws)
}

// FindWorkerServiceByPair resolves the link between one worker and one
// service.
func (r *ServiceRepository) FindWorkerServiceByPair(workerID, serviceID uint) (models.WorkerService, error) {
	var ws models.WorkerService
	err := r.q().Where("worker_id = ? AND service_id = ?", workerID, serviceID).First(&ws)
	return ws, err
}

// WorkerServicesOf returns the links for one worker.
func (r *ServiceRepository) WorkerServicesOf(workerID uint) ([]models.WorkerService, error) {
	var links []models.WorkerService
	err := r.q().Preload("Service").Preload("Service.SubCategories").
		Where("worker_id = ?", workerID).Get(&links)
	return links, err
}

// DeleteWorkerServicesByService removes every link pointing at a
// service. Links sit under a unique (worker, service) index, so the
// delete is permanent — a tombstone would block relinking.
func (r *ServiceRepository) DeleteWorkerServicesByService(serviceID uint) error {
	return r.q().Unscoped().Where("service_id = ?", serviceID).Delete(&models.WorkerService{})
}

// DeleteWorkerServicesByWorker removes every link a worker holds.
func (r *ServiceRepository) DeleteWorkerServicesByWorker(workerID uint) error {
	return r.q().Unscoped().Where("worker_id = ?", workerID).Delete(&models.WorkerService{})
}

// IncrementOrdered adjusts the booking tally on a link; delta may be
// negative on cancellation.
func (r *ServiceRepository) IncrementOrdered(workerServiceID uint, delta int64) error {
	return r.q().Model(&models.WorkerService{}).Where("id = ?", workerServiceID).
		Updates(map[string]interface{}{"ordered_count": gorm.Expr("ordered_count + ?", delta)})
}

// SetRating overwrites the running rating mean and review count on a
// link.
func (r *ServiceRepository) SetRating(workerServiceID uint, value float64, count int64) error {
	return r.q().Model(&models.WorkerService{}).Where("id = ?", workerServiceID).
		Updates(map[string]interface{}{"rating_value": value, "rating_count": count})
}

// Store returns one page of the services storefront: links whose worker
// is verified and serves the pincode, filtered by category and optional
// sub-category names.
func (r *ServiceRepository) Store(pincode, category, sortBy string, subCategories []string, page, perPage int) ([]models.WorkerService, orm.Pagination, error) {
	q := r.q().Model(&models.WorkerService{}).
		Preload("Service").Preload("Service.SubCategories").
		Preload("Worker").Preload("Worker.User").
		Joins("JOIN services ON services.id = worker_services.service_id").
		Joins("JOIN workers ON workers.user_id = worker_services.worker_id").
		Joins("JOIN locations ON locations.worker_id = workers.user_id").
		Where("workers.is_verified = ?", true).
		Where("locations.pincode = ?", pincode)

	if category != "" {
		q = q.Where("services.service_category = ?", category)
	}
	if len(subCategories) > 0 {
		q = q.Joins("JOIN service_sub_categories ssc ON ssc.service_id = services.id").
			Where("ssc.name IN ?", subCategories)
	}

	switch sortBy {
	case "price":
		q = q.Order("(SELECT MIN(price) FROM service_sub_categories WHERE service_id = services.id)")
	case "ratingValue":
		q = q.Order("worker_services.rating_value DESC")
	default:
		q = q.Order("worker_services.ordered_count DESC")
	}

	var links []models.WorkerService
	pagination, err := q.Select("DISTINCT worker_services.*").GetWithPagination(&links, page, perPage)
	return links, pagination, err
}
