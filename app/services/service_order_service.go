package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chhotalabhavik/cleanout/app/jobs"
	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/app/repositories"
	"github.com/chhotalabhavik/cleanout/pkg/event"
	"github.com/chhotalabhavik/cleanout/pkg/metrics"
	"github.com/chhotalabhavik/cleanout/pkg/orm"
	"gorm.io/gorm"
)

// ServiceOrderService drives service bookings: placement, the OTP-gated
// start of work, completion, cancellation and re-booking.
type ServiceOrderService struct {
	users    *repositories.UserRepository
	workers  *repositories.WorkerRepository
	services *repositories.ServiceRepository
	orders   *repositories.ServiceOrderRepository
}

func NewServiceOrderService() *ServiceOrderService {
	return &ServiceOrderService{
		users:    repositories.NewUserRepository(),
		workers:  repositories.NewWorkerRepository(),
		services: repositories.NewServiceRepository(),
		orders:   repositories.NewServiceOrderRepository(),
	}
}

// BookLine is one chosen service variant. Qty counts units for
// unit-priced variants and square feet for area-priced ones.
type BookLine struct {
	SubCategoryID uint `json:"subCategoryId" validate:"required"`
	Qty           int  `json:"qty"           validate:"required,gte=1"`
}

// priceLines computes the booking total from the live sub-category
// prices; the caller's numbers are never trusted.
func priceLines(service models.Service, lines []BookLine) (float64, error) {
	byID := make(map[uint]models.ServiceSubCategory, len(service.SubCategories))
	for _, sub := range service.SubCategories {
		byID[sub.ID] = sub
	}

	var total float64
	for _, line := range lines {
		if line.Qty < 1 {
			return 0, Fail("Invalid quantity")
		}
		sub, ok := byID[line.SubCategoryID]
		if !ok {
			return 0, Fail("Service not found")
		}
		if sub.MaxSquareFt != nil && *sub.MaxSquareFt > 0 {
			blocks := (line.Qty + *sub.MaxSquareFt - 1) / *sub.MaxSquareFt
			total += sub.Price * float64(blocks)
		} else {
			total += sub.Price * float64(line.Qty)
		}
	}
	return total, nil
}

// Book places a booking against one worker's service. The shop is
// recorded when the worker is dependent so it shares the notifications.
func (s *ServiceOrderService) Book(userID, workerServiceID uint, lines []BookLine) (uint, error) {
	ws, err := s.services.FindWorkerService(workerServiceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, Fail("Worker service not found")
	}
	if err != nil {
		return 0, err
	}
	if ws.Service == nil {
		return 0, Fail("Service not found")
	}

	user, err := s.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, Fail("User not found")
	}
	if err != nil {
		return 0, err
	}

	worker, err := s.workers.FindByUserID(ws.WorkerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, Fail("Worker not found")
	}
	if err != nil {
		return 0, err
	}

	price, err := priceLines(*ws.Service, lines)
	if err != nil {
		return 0, err
	}

	metaData, err := json.Marshal(lines)
	if err != nil {
		return 0, err
	}

	order := models.ServiceOrder{
		UserID:          userID,
		WorkerID:        ws.WorkerID,
		ServiceID:       ws.ServiceID,
		PlacedDate:      time.Now(),
		Price:           price,
		Status:          models.StatusPending,
		ServiceCategory: ws.Service.ServiceCategory,
		MetaData:        string(metaData),
	}

	recipients := []uint{userID, ws.WorkerID}
	if worker.Dependency == models.DependencyDependent && worker.ShopkeeperID != nil {
		order.ShopkeeperID = worker.ShopkeeperID
		recipients = append(recipients, *worker.ShopkeeperID)
	}

	err = orm.Transaction(func(tx *gorm.DB) error {
		if err := s.orders.WithTx(tx).Create(&order); err != nil {
			return err
		}
		return s.services.WithTx(tx).IncrementOrdered(workerServiceID, 1)
	})
	if err != nil {
		return 0, err
	}

	metrics.OrdersPlaced.WithLabelValues("service").Inc()
	event.FireAsync("service_order.booked", order.ID)

	jobs.NotificationJob{
		UserIDs:   recipients,
		Addresses: []string{user.Phone},
		Purpose:   jobs.PurposePlacedOrder,
		Message:   fmt.Sprintf("Order placed with total price : %.2f", order.Price),
	}.Dispatch()

	return order.ID, nil
}

// Get fetches the booking with its service.
func (s *ServiceOrderService) Get(orderID uint) (models.ServiceOrder, error) {
	order, err := s.orders.FindByID(orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ServiceOrder{}, Fail("Service order not found")
	}
	return order, err
}

// ForUser pages the user's bookings.
func (s *ServiceOrderService) ForUser(userID uint, page, perPage int) ([]models.ServiceOrder, orm.Pagination, error) {
	return s.orders.ForUser(userID, page, perPage)
}

// ForWorker pages the bookings assigned to a worker.
func (s *ServiceOrderService) ForWorker(workerID uint, page, perPage int) ([]models.ServiceOrder, orm.Pagination, error) {
	return s.orders.ForWorker(workerID, page, perPage)
}

// recipients collects user, worker and (when present) shop for
// notification fan-out.
func (s *ServiceOrderService) recipients(order models.ServiceOrder) []uint {
	ids := []uint{order.UserID, order.WorkerID}
	if order.ShopkeeperID != nil {
		ids = append(ids, *order.ShopkeeperID)
	}
	return ids
}

// Done completes a booking. Only BEING_SERVED orders — work that
// actually started via the OTP gate — can be completed.
func (s *ServiceOrderService) Done(orderID uint) error {
	order, err := s.orders.FindByID(orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Fail("Service order not found")
	}
	if err != nil {
		return err
	}
	if order.Status != models.StatusBeingServed {
		return Fail("Cannot complete order")
	}

	now := time.Now()
	ok, err := s.orders.Transition(&order, models.StatusDelivered, map[string]interface{}{
		"delivered_date": &now,
	})
	if err != nil {
		return err
	}
	if !ok {
		return Fail("Cannot complete order")
	}

	metrics.OrderTransitions.WithLabelValues("service", models.StatusDelivered).Inc()
	event.FireAsync("service_order.delivered", order.ID)

	jobs.NotificationJob{
		UserIDs: s.recipients(order),
		Purpose: jobs.PurposeDeliveredOrder,
		Message: fmt.Sprintf("Order delivered with total price : %.2f", order.Price),
	}.Dispatch()
	return nil
}

// Cancel aborts a booking from any non-terminal state and hands the
// popularity tally back. Double cancel fails without a second decrement.
func (s *ServiceOrderService) Cancel(orderID uint) error {
	order, err := s.orders.FindByID(orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Fail("Service order not found")
	}
	if err != nil {
		return err
	}
	if order.Status == models.StatusCancelled {
		return Fail("Service order already cancelled")
	}
	if !models.CanTransition(order.Status, models.StatusCancelled) {
		return Fail("Cannot cancel order")
	}

	err = orm.Transaction(func(tx *gorm.DB) error {
		ok, err := s.orders.WithTx(tx).Transition(&order, models.StatusCancelled, nil)
		if err != nil {
			return err
		}
		if !ok {
			return Fail("Cannot cancel order")
		}

		link, err := s.services.WithTx(tx).FindWorkerServiceByPair(order.WorkerID, order.ServiceID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // service withdrawn since booking; nothing to decrement
		}
		if err != nil {
			return err
		}
		return s.services.WithTx(tx).IncrementOrdered(link.ID, -1)
	})
	if err != nil {
		return err
	}

	metrics.OrderTransitions.WithLabelValues("service", models.StatusCancelled).Inc()

	jobs.NotificationJob{
		UserIDs: s.recipients(order),
		Purpose: jobs.PurposeCancelOrder,
		Message: fmt.Sprintf("Order cancelled with total price : %.2f", order.Price),
	}.Dispatch()
	return nil
}

// Replace re-books an old order: same worker, service, price and chosen
// variants, fresh PENDING status. Each missing participant fails with
// its own message.
func (s *ServiceOrderService) Replace(orderID uint) (uint, error) {
	old, err := s.orders.FindByID(orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, Fail("Service order not found")
	}
	if err != nil {
		return 0, err
	}

	user, err := s.users.FindByID(old.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, Fail("User not found")
	}
	if err != nil {
		return 0, err
	}

	if _, err := s.services.FindByID(old.ServiceID); errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, Fail("Service not found")
	} else if err != nil {
		return 0, err
	}

	if _, err := s.workers.FindByUserID(old.WorkerID); errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, Fail("Worker not found")
	} else if err != nil {
		return 0, err
	}

	link, err := s.services.FindWorkerServiceByPair(old.WorkerID, old.ServiceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, Fail("Service for worker not found")
	}
	if err != nil {
		return 0, err
	}

	fresh := models.ServiceOrder{
		UserID:          old.UserID,
		WorkerID:        old.WorkerID,
		ShopkeeperID:    old.ShopkeeperID,
		ServiceID:       old.ServiceID,
		PlacedDate:      time.Now(),
		Price:           old.Price,
		Status:          models.StatusPending,
		ServiceCategory: old.ServiceCategory,
		MetaData:        old.MetaData,
	}

	err = orm.Transaction(func(tx *gorm.DB) error {
		if err := s.orders.WithTx(tx).Create(&fresh); err != nil {
			return err
		}
		return s.services.WithTx(tx).IncrementOrdered(link.ID, 1)
	})
	if err != nil {
		return 0, err
	}

	metrics.OrdersPlaced.WithLabelValues("service").Inc()

	jobs.NotificationJob{
		UserIDs:   s.recipients(fresh),
		Addresses: []string{user.Phone},
		Purpose:   jobs.PurposePlacedOrder,
		Message:   fmt.Sprintf("Order placed with total price : %.2f", fresh.Price),
	}.Dispatch()

	return fresh.ID, nil
}

// SendOTP generates the delivery-confirmation code for a PENDING
// booking, stores it encrypted with a fresh expiry and mails it to the
// customer.
func (s *ServiceOrderService) SendOTP(orderID uint) error {
	order, err := s.orders.FindByID(orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Fail("Service order not found")
	}
	if err != nil {
		return err
	}
	if order.Status != models.StatusPending {
		return Fail("Cannot send OTP")
	}

	user, err := s.users.FindByID(order.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Fail("User not found")
	}
	if err != nil {
		return err
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	sealed, expiry, err := sealOTP(code)
	if err != nil {
		return err
	}

	order.OTP = sealed
	order.OTPExpiresAt = &expiry
	if err := s.orders.Save(&order); err != nil {
		return err
	}

	jobs.NotificationJob{
		Addresses: []string{user.Phone},
		Purpose:   jobs.PurposeOTP,
		Message:   "Your delivery code is " + code,
	}.Dispatch()
	return nil
}

// VerifyOTP checks the worker-presented code. A wrong or expired code
// never mutates the order; a correct one consumes the code and starts
// the work.
func (s *ServiceOrderService) VerifyOTP(orderID uint, code string) error {
	order, err := s.orders.FindByID(orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Fail("Service order not found")
	}
	if err != nil {
		return err
	}
	if order.Status != models.StatusPending {
		metrics.OTPVerifications.WithLabelValues("invalid_state").Inc()
		return Fail("Cannot verify OTP")
	}
	if otpExpired(order.OTPExpiresAt) {
		metrics.OTPVerifications.WithLabelValues("expired").Inc()
		return Fail("Incorrect OTP")
	}
	if !otpMatches(order.OTP, code) {
		metrics.OTPVerifications.WithLabelValues("mismatch").Inc()
		return Fail("Incorrect OTP")
	}

	ok, err := s.orders.Transition(&order, models.StatusBeingServed, map[string]interface{}{
		"otp":            "",
		"otp_expires_at": nil,
	})
	if err != nil {
		return err
	}
	if !ok {
		metrics.OTPVerifications.WithLabelValues("invalid_state").Inc()
		return Fail("Cannot verify OTP")
	}

	metrics.OTPVerifications.WithLabelValues("ok").Inc()
	metrics.OrderTransitions.WithLabelValues("service", models.StatusBeingServed).Inc()

	jobs.NotificationJob{
		UserIDs: s.recipients(order),
		Purpose: jobs.PurposeVerifiedWorker,
		Message: "Service order is being served",
	}.Dispatch()
	return nil
}
