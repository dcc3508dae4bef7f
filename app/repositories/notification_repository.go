package repositories

import (
	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/pkg/orm"
	"gorm.io/gorm"
)

// NotificationRepository handles the per-user notification inbox.
type NotificationRepository struct {
	tx *gorm.DB
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) WithTx(tx *gorm.DB) *NotificationRepository {
	return &NotificationRepository{tx: tx}
}

func (r *NotificationRepository) q() *orm.Query {
	if r.tx != nil {
		return orm.Use(r.tx)
	}
	return orm.DB()
}

func (r *NotificationRepository) Create(n *models.Notification) error {
	return r.q().Create(n)
}

// ForUser returns one page of the user's inbox, newest first.
func (r *NotificationRepository) ForUser(userID uint, page, perPage int) ([]models.Notification, orm.Pagination, error) {
	var notifications []models.Notification
	pagination, err := r.q().Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		GetWithPagination(&notifications, page, perPage)
	return notifications, pagination, err
}

// MarkSeen flags every unseen notification of the user as read.
func (r *NotificationRepository) MarkSeen(userID uint) error {
	return r.q().Model(&models.Notification{}).
		Where("user_id = ? AND seen = ?", userID, false).
		Updates(map[string]interface{}{"seen": true})
}
