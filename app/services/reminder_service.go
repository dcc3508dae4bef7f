package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/chhotalabhavik/cleanout/app/jobs"
	"github.com/chhotalabhavik/cleanout/app/repositories"
	"github.com/chhotalabhavik/cleanout/pkg/workerpool"
)

// ReminderService sends the daily re-engagement nudge: every booking
// placed exactly one month ago earns its buyer a reminder.
type ReminderService struct {
	users  *repositories.UserRepository
	orders *repositories.ServiceOrderRepository
}

func NewReminderService() *ReminderService {
	return &ReminderService{
		users:  repositories.NewUserRepository(),
		orders: repositories.NewServiceOrderRepository(),
	}
}

// Run scans the one-month-ago day and fans the reminders out over a
// small pool so a large day cannot stall the scheduler tick.
func (s *ReminderService) Run() error {
	day := time.Now().AddDate(0, -1, 0)
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)

	orders, err := s.orders.PlacedBetween(from, to)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		return nil
	}

	pool := workerpool.New(4)
	defer pool.Shutdown()

	for _, order := range orders {
		order := order
		err := pool.SubmitWait(func() {
			user, err := s.users.FindByID(order.UserID)
			if err != nil {
				slog.Warn("reminder: buyer lookup failed", "order", order.ID, "error", err)
				return
			}

			serviceName := ""
			if order.Service != nil {
				serviceName = order.Service.ServiceName
			}
			message := fmt.Sprintf(
				"Dear %s, it's been one month since you booked service %s [%s]",
				user.UserName, serviceName, order.ServiceCategory,
			)

			jobs.NotificationJob{
				UserIDs:   []uint{user.ID},
				Addresses: []string{user.Phone},
				Purpose:   jobs.PurposeReminder,
				Message:   message,
			}.Dispatch()
		})
		if err != nil {
			return err
		}
	}

	slog.Info("reminder: sweep complete", "orders", len(orders), "day", from.Format("2006-01-02"))
	return nil
}
