package repositories

import (
	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/pkg/orm"
	"gorm.io/gorm"
)

// WorkerRepository handles worker rows and their serviceable locations.
type WorkerRepository struct {
	tx *gorm.DB
}

func NewWorkerRepository() *WorkerRepository {
	return &WorkerRepository{}
}

func (r *WorkerRepository) WithTx(tx *gorm.DB) *WorkerRepository {
	return &WorkerRepository{tx: tx}
}

func (r *WorkerRepository) q() *orm.Query {
	if r.tx != nil {
		return orm.Use(r.tx)
	}
	return orm.DB()
}

// FindByUserID fetches the worker row with user and locations attached.
func (r *WorkerRepository) FindByUserID(userID uint) (models.Worker, error) {
	var worker models.Worker
	err := r.q().Preload("User").Preload("User.Address").Preload("Locations").
		Where("user_id = ?", userID).First(&worker)
	return worker, err
}

func (r *WorkerRepository) Create(worker *models.Worker) error {
	return r.q().Create(worker)
}

func (r *WorkerRepository) Save(worker *models.Worker) error {
	return r.q().Save(worker)
}

func (r *WorkerRepository) Delete(userID uint) error {
	return r.q().Where("user_id = ?", userID).Delete(&models.Worker{})
}

// OfShop returns every worker currently dependent on the shop.
func (r *WorkerRepository) OfShop(shopkeeperID uint) ([]models.Worker, error) {
	var workers []models.Worker
	err := r.q().Preload("User").
		Where("shopkeeper_id = ? AND dependency = ?", shopkeeperID, models.DependencyDependent).
		Get(&workers)
	return workers, err
}

// ReplaceLocations swaps the worker's pincode list for the given set.
func (r *WorkerRepository) ReplaceLocations(workerID uint, pincodes []string) error {
	if err := r.q().Where("worker_id = ?", workerID).Delete(&models.Location{}); err != nil {
		return err
	}
	for _, pincode := range pincodes {
		loc := models.Location{WorkerID: workerID, Pincode: pincode}
		if err := r.q().Create(&loc); err != nil {
			return err
		}
	}
	return nil
}

func (r *WorkerRepository) DeleteLocations(workerID uint) error {
	return r.q().Where("worker_id = ?", workerID).Delete(&models.Location{})
}

func (r *WorkerRepository) CountAll() (int64, error) {
	var count int64
	err := r.q().Model(&models.Worker{}).Count(&count)
	return count, err
}
