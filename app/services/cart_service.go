package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/chhotalabhavik/cleanout/app/jobs"
	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/app/repositories"
	"github.com/chhotalabhavik/cleanout/pkg/collection"
	"github.com/chhotalabhavik/cleanout/pkg/event"
	"github.com/chhotalabhavik/cleanout/pkg/metrics"
	"github.com/chhotalabhavik/cleanout/pkg/orm"
	"gorm.io/gorm"
)

// CartService is the cart aggregator and order splitter: the cart holds
// only (item, count) pairs, everything else is joined live so stale
// prices and vanished items can never be sold.
type CartService struct {
	users *repositories.UserRepository
	items *repositories.ItemRepository
	carts *repositories.CartRepository
	shops *repositories.ShopkeeperRepository
}

func NewCartService() *CartService {
	return &CartService{
		users: repositories.NewUserRepository(),
		items: repositories.NewItemRepository(),
		carts: repositories.NewCartRepository(),
		shops: repositories.NewShopkeeperRepository(),
	}
}

// CartLine is one aggregated cart row: the stored pack joined with the
// live item and its shop, priced at read time.
type CartLine struct {
	models.CartItemPack
	Shopkeeper *models.Shopkeeper `json:"shopkeeper,omitempty"`
	LineTotal  float64            `json:"lineTotal"`
}

// Get returns the user's cart. Lines whose item is gone or unavailable
// are pruned silently — the row is deleted, not surfaced.
func (s *CartService) Get(userID uint) ([]CartLine, error) {
	if _, err := s.users.FindByID(userID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Fail("User not found")
	} else if err != nil {
		return nil, err
	}

	packs, err := s.carts.Lines(userID)
	if err != nil {
		return nil, err
	}

	stale := collection.Filter(packs, func(p models.CartItemPack) bool {
		return p.Item == nil || !p.Item.IsAvailable
	})
	for _, p := range stale {
		if err := s.carts.DeletePack(p.ID); err != nil {
			return nil, err
		}
	}

	live := collection.Reject(packs, func(p models.CartItemPack) bool {
		return p.Item == nil || !p.Item.IsAvailable
	})

	lines := make([]CartLine, 0, len(live))
	for _, p := range live {
		line := CartLine{CartItemPack: p, LineTotal: p.Item.Price * float64(p.Count)}
		if shop, err := s.shops.FindByUserID(p.Item.ShopkeeperID); err == nil {
			line.Shopkeeper = &shop
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// ChangeCount overwrites a line's count; zero removes the line.
func (s *CartService) ChangeCount(packID uint, count int) (models.CartItemPack, error) {
	if count < 0 {
		return models.CartItemPack{}, Fail("Item not found")
	}

	pack, err := s.carts.FindPack(packID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CartItemPack{}, Fail("Item not found")
	}
	if err != nil {
		return models.CartItemPack{}, err
	}

	if _, err := s.items.FindByID(pack.ItemID); errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CartItemPack{}, Fail("Item not found")
	} else if err != nil {
		return models.CartItemPack{}, err
	}

	if err := s.carts.SetCount(packID, count); err != nil {
		return models.CartItemPack{}, err
	}
	pack.Count = count
	return pack, nil
}

// Clear empties the cart.
func (s *CartService) Clear(userID uint) error {
	if _, err := s.users.FindByID(userID); errors.Is(err, gorm.ErrRecordNotFound) {
		return Fail("User not found")
	} else if err != nil {
		return err
	}
	return s.carts.Clear(userID)
}

// PlaceOrder turns the cart into one ItemOrder with one pack per line,
// all inside a single transaction. Lines whose item disappeared or went
// unavailable since carting are skipped; if nothing survives the order
// is refused. The parent price is the sum of the surviving packs and is
// never recomputed afterwards.
func (s *CartService) PlaceOrder(userID uint) (uint, error) {
	user, err := s.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, Fail("User not found")
	}
	if err != nil {
		return 0, err
	}

	var order models.ItemOrder
	var packs []models.OrderItemPack

	err = orm.Transaction(func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		items := s.items.WithTx(tx)
		orders := repositories.NewOrderRepository().WithTx(tx)

		lines, err := carts.Lines(userID)
		if err != nil {
			return err
		}

		type pricedLine struct {
			item models.Item
			pack models.CartItemPack
		}
		var surviving []pricedLine
		for _, line := range lines {
			item, err := items.FindByID(line.ItemID)
			if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !item.IsAvailable) {
				continue
			}
			if err != nil {
				return err
			}
			surviving = append(surviving, pricedLine{item: item, pack: line})
		}

		if len(surviving) == 0 {
			return Fail("Cart is empty")
		}

		netPrice := collection.Sum(surviving, func(l pricedLine) float64 {
			return l.item.Price * float64(l.pack.Count)
		})

		order = models.ItemOrder{UserID: userID, PlacedDate: time.Now(), Price: netPrice}
		if err := orders.Create(&order); err != nil {
			return err
		}

		for _, l := range surviving {
			pack := models.OrderItemPack{
				OrderID:      order.ID,
				ShopkeeperID: l.item.ShopkeeperID,
				ItemID:       l.item.ID,
				Count:        l.pack.Count,
				Price:        l.item.Price * float64(l.pack.Count),
				Status:       models.StatusPending,
			}
			if err := orders.CreatePack(&pack); err != nil {
				return err
			}
			if err := items.IncrementOrdered(l.item.ID, 1); err != nil {
				return err
			}
			packs = append(packs, pack)
		}

		return carts.Clear(userID)
	})
	if err != nil {
		return 0, err
	}

	metrics.OrdersPlaced.WithLabelValues("item").Inc()
	event.FireAsync("item_order.placed", order.ID)

	jobs.NotificationJob{
		UserIDs:   []uint{userID},
		Addresses: []string{user.Phone},
		Purpose:   jobs.PurposePlacedOrder,
		Message:   fmt.Sprintf("Placed order of %.2f", order.Price),
	}.Dispatch()

	for _, pack := range packs {
		jobs.NotificationJob{
			UserIDs: []uint{pack.ShopkeeperID},
			Purpose: jobs.PurposePlacedOrder,
			Message: fmt.Sprintf("Placed order of %.2f", pack.Price),
		}.Dispatch()
	}

	return order.ID, nil
}
