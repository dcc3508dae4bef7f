package services

import (
	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/app/repositories"
	"github.com/chhotalabhavik/cleanout/pkg/metrics"
	"gorm.io/gorm"
)

// CascadeService owns the two multi-table consistency operations shared
// by role changes, account deletion and the shop-affiliation workflow.
// Every method runs inside the caller's transaction.
type CascadeService struct{}

func NewCascadeService() *CascadeService {
	return &CascadeService{}
}

// DetachWorker severs the worker's shop affiliation: the shop link is
// cleared and the worker-service links are rebuilt from the worker's own
// services only. Serviceable locations are untouched — they belong to
// the worker, not the shop.
func (s *CascadeService) DetachWorker(tx *gorm.DB, workerID uint) error {
	workers := repositories.NewWorkerRepository().WithTx(tx)
	servicesRepo := repositories.NewServiceRepository().WithTx(tx)

	worker, err := workers.FindByUserID(workerID)
	if err != nil {
		return err
	}

	worker.ShopkeeperID = nil
	worker.Dependency = models.DependencyNone
	if err := workers.Save(&worker); err != nil {
		return err
	}

	if err := servicesRepo.DeleteWorkerServicesByWorker(workerID); err != nil {
		return err
	}

	own, err := servicesRepo.OwnedBy(workerID)
	if err != nil {
		return err
	}
	for _, service := range own {
		link := models.WorkerService{WorkerID: workerID, ServiceID: service.ID}
		if err := servicesRepo.CreateWorkerService(&link); err != nil {
			return err
		}
	}

	metrics.CascadesRun.WithLabelValues("detach_worker").Inc()
	return nil
}

// RemoveShopkeeperOfferings deletes everything a shop brought to the
// marketplace — its items and services — and detaches every dependent
// worker so none of them keeps offering a deleted service.
func (s *CascadeService) RemoveShopkeeperOfferings(tx *gorm.DB, shopkeeperID uint) error {
	workers := repositories.NewWorkerRepository().WithTx(tx)
	servicesRepo := repositories.NewServiceRepository().WithTx(tx)

	dependent, err := workers.OfShop(shopkeeperID)
	if err != nil {
		return err
	}

	shopServices, err := servicesRepo.OwnedBy(shopkeeperID)
	if err != nil {
		return err
	}
	for _, service := range shopServices {
		if err := servicesRepo.DeleteWorkerServicesByService(service.ID); err != nil {
			return err
		}
		if err := servicesRepo.Delete(service.ID); err != nil {
			return err
		}
	}

	if err := tx.Where("shopkeeper_id = ?", shopkeeperID).Delete(&models.Item{}).Error; err != nil {
		return err
	}

	for _, worker := range dependent {
		if err := s.DetachWorker(tx, worker.UserID); err != nil {
			return err
		}
	}

	metrics.CascadesRun.WithLabelValues("remove_offerings").Inc()
	return nil
}
