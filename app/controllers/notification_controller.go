package controllers

import (
	"github.com/chhotalabhavik/cleanout/app/repositories"
	"github.com/chhotalabhavik/cleanout/pkg/ctx"
	"github.com/chhotalabhavik/cleanout/pkg/response"
)

// NotificationController serves the per-user notification inbox.
type NotificationController struct {
	notifications *repositories.NotificationRepository
}

func NewNotificationController() *NotificationController {
	return &NotificationController{notifications: repositories.NewNotificationRepository()}
}

// Inbox pages the caller's notifications, newest first.
func (nc *NotificationController) Inbox(c *ctx.Context) {
	notifications, pagination, err := nc.notifications.ForUser(c.UserID(), page(c), c.QueryInt("perPage", 20))
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Found notifications", response.M{
		"notifications": notifications,
		"totalItems":    pagination.Total,
	})
}

// MarkSeen flags every unseen notification as read.
func (nc *NotificationController) MarkSeen(c *ctx.Context) {
	if err := nc.notifications.MarkSeen(c.UserID()); err != nil {
		renderError(c, err)
		return
	}
	c.OK("Marked seen", nil)
}
