package services

import (
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

// OrderService drives the item-order lifecycle after placement: reading
// orders, advancing pack status through the transition table and
// re-placing old orders.
type OrderService struct {
	users  *repositories.UserRepository
	items  *repositories.ItemRepository
	orders *repositories.OrderRepository
}

func NewOrderService() *OrderService {
	return &OrderService{
		users:  repositories.NewUserRepository(),
		items:  repositories.NewItemRepository(),
		orders: repositories.NewOrderRepository(),
	}
}

// OrderView is the order joined with buyer and derived aggregate status.
type OrderView struct {
	models.ItemOrder
	Status string       `json:"status"`
	User   *models.User `json:"user,omitempty"`
}

// Get fetches an order with packs, items, buyer and the aggregate
// status derived from the packs.
func (s *OrderService) Get(orderID uint) (OrderView, error) {
	order, err := s.orders.FindByID(orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return OrderView{}, Fail("Item order not found")
	}
	if err != nil {
		return OrderView{}, err
	}

	view := OrderView{ItemOrder: order, Status: models.AggregateStatus(order.Packs)}
	if user, err := s.users.FindByID(order.UserID); err == nil {
		view.User = &user
	}
	return view, nil
}

// ForUser pages the user's orders with aggregate statuses.
func (s *OrderService) ForUser(userID uint, page, perPage int) ([]OrderView, orm.Pagination, error) {
	orders, pagination, err := s.orders.ForUser(userID, page, perPage)
	if err != nil {
		return nil, orm.Pagination{}, err
	}
	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, OrderView{ItemOrder: order, Status: models.AggregateStatus(order.Packs)})
	}
	return views, pagination, nil
}

// ForShopkeeper pages the packs addressed to a shop.
func (s *OrderService) ForShopkeeper(shopkeeperID uint, page, perPage int) ([]models.OrderItemPack, orm.Pagination, error) {
	return s.orders.ForShopkeeper(shopkeeperID, page, perPage)
}

// ChangePackStatus advances one of the shopkeeper's packs along the
// shipping path under optimistic locking. DELIVERED stamps the delivery
// date; cancellation goes through CancelPack only.
func (s *OrderService) ChangePackStatus(shopkeeperID, packID uint, to string) error {
	pack, err := s.orders.FindPack(packID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && pack.ShopkeeperID != shopkeeperID) {
		return Fail("Item order pack not found")
	}
	if err != nil {
		return err
	}

	if !models.CanTransitionItemPack(pack.Status, to) {
		return Fail("Invalid status change")
	}

	ok, err := s.orders.TransitionPack(&pack, to)
	if err != nil {
		return err
	}
	if !ok {
		return Fail("Invalid status change")
	}

	metrics.OrderTransitions.WithLabelValues("item", to).Inc()
	event.FireAsync("item_order.status", packID)

	itemName := ""
	if pack.Item != nil {
		itemName = pack.Item.ItemName
	}
	order, err := s.orders.FindByID(pack.OrderID)
	if err == nil {
		switch to {
		case models.StatusDispatched:
			jobs.NotificationJob{
				UserIDs: []uint{order.UserID},
				Purpose: jobs.PurposeDispatchedOrder,
				Message: fmt.Sprintf("%s dispatched", itemName),
			}.Dispatch()
		case models.StatusDelivered:
			jobs.NotificationJob{
				UserIDs: []uint{order.UserID},
				Purpose: jobs.PurposeDeliveredOrder,
				Message: fmt.Sprintf("%s delivered", itemName),
			}.Dispatch()
		}
	}
	return nil
}

// CancelPack cancels one pack on behalf of the buyer or the pack's
// shopkeeper. A second cancel fails and never decrements the popularity
// tally twice.
func (s *OrderService) CancelPack(actorID, packID uint) error {
	pack, err := s.orders.FindPack(packID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Fail("Item order pack not found")
	}
	if err != nil {
		return err
	}

	order, err := s.orders.FindByID(pack.OrderID)
	if err != nil {
		return err
	}
	if order.UserID != actorID && pack.ShopkeeperID != actorID {
		return Fail("Item order pack not found")
	}

	if pack.Status == models.StatusCancelled {
		return Fail("Item order pack already cancelled")
	}
	if !models.CanTransition(pack.Status, models.StatusCancelled) {
		return Fail("Invalid status change")
	}

	err = orm.Transaction(func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)
		ok, err := orders.TransitionPack(&pack, models.StatusCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return Fail("Invalid status change")
		}
		return s.items.WithTx(tx).IncrementOrdered(pack.ItemID, -1)
	})
	if err != nil {
		return err
	}

	metrics.OrderTransitions.WithLabelValues("item", models.StatusCancelled).Inc()

	itemName := ""
	if pack.Item != nil {
		itemName = pack.Item.ItemName
	}
	jobs.NotificationJob{
		UserIDs: []uint{pack.ShopkeeperID, order.UserID},
		Purpose: jobs.PurposeCancelOrder,
		Message: fmt.Sprintf("Cancelled order of %s", itemName),
	}.Dispatch()
	return nil
}

// Replace re-places one of the buyer's old orders at current prices:
// every pack whose item still exists and is available becomes a fresh
// PENDING pack under a new order; unresolvable packs are skipped.
func (s *OrderService) Replace(userID, orderID uint) (uint, error) {
	old, err := s.orders.FindByID(orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && old.UserID != userID) {
		return 0, Fail("Item order not found")
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

	var fresh models.ItemOrder
	var packs []models.OrderItemPack

	err = orm.Transaction(func(tx *gorm.DB) error {
		items := s.items.WithTx(tx)
		orders := s.orders.WithTx(tx)

		type pricedPack struct {
			item  models.Item
			count int
		}
		var surviving []pricedPack
		for _, pack := range old.Packs {
			item, err := items.FindByID(pack.ItemID)
			if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !item.IsAvailable) {
				continue
			}
			if err != nil {
				return err
			}
			surviving = append(surviving, pricedPack{item: item, count: pack.Count})
		}
		if len(surviving) == 0 {
			return Fail("Cart is empty")
		}

		var netPrice float64
		for _, p := range surviving {
			netPrice += p.item.Price * float64(p.count)
		}

		fresh = models.ItemOrder{UserID: old.UserID, PlacedDate: time.Now(), Price: netPrice}
		if err := orders.Create(&fresh); err != nil {
			return err
		}

		for _, p := range surviving {
			pack := models.OrderItemPack{
				OrderID:      fresh.ID,
				ShopkeeperID: p.item.ShopkeeperID,
				ItemID:       p.item.ID,
				Count:        p.count,
				Price:        p.item.Price * float64(p.count),
				Status:       models.StatusPending,
			}
			if err := orders.CreatePack(&pack); err != nil {
				return err
			}
			if err := items.IncrementOrdered(p.item.ID, 1); err != nil {
				return err
			}
			packs = append(packs, pack)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	metrics.OrdersPlaced.WithLabelValues("item").Inc()

	jobs.NotificationJob{
		UserIDs:   []uint{user.ID},
		Addresses: []string{user.Phone},
		Purpose:   jobs.PurposePlacedOrder,
		Message:   fmt.Sprintf("Placed order of %.2f", fresh.Price),
	}.Dispatch()
	for _, pack := range packs {
		jobs.NotificationJob{
			UserIDs: []uint{pack.ShopkeeperID},
			Purpose: jobs.PurposePlacedOrder,
			Message: fmt.Sprintf("Placed order of %.2f", pack.Price),
		}.Dispatch()
	}

	return fresh.ID, nil
}
