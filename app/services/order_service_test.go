package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/app/repositories"
	"github.com/chhotalabhavik/cleanout/app/services"
)

func TestPlaceOrderSplitsPerShopkeeper(t *testing.T) {
	db := setupDB(t)

	buyer := createUser(t, db, "Asha", "9000000001", models.RoleUser)
	shopA := createShopkeeper(t, db, "Ravi", "9000000002")
	shopB := createShopkeeper(t, db, "Meena", "9000000003")
	itemA := createItem(t, db, shopA.ID, "Broom", 100)
	itemB := createItem(t, db, shopB.ID, "Mop", 50)

	carts := repositories.NewCartRepository()
	require.NoError(t, carts.Add(buyer.ID, itemA.ID, 2))
	require.NoError(t, carts.Add(buyer.ID, itemB.ID, 1))

	orderID, err := services.NewCartService().PlaceOrder(buyer.ID)
	require.NoError(t, err)

	order, err := repositories.NewOrderRepository().FindByID(orderID)
	require.NoError(t, err)
	assert.Equal(t, 250.0, order.Price)
	require.Len(t, order.Packs, 2)

	var packSum float64
	byShop := map[uint]models.OrderItemPack{}
	for _, pack := range order.Packs {
		packSum += pack.Price
		byShop[pack.ShopkeeperID] = pack
		assert.Equal(t, models.StatusPending, pack.Status)
	}
	assert.Equal(t, order.Price, packSum)
	assert.Equal(t, 200.0, byShop[shopA.ID].Price)
	assert.Equal(t, 50.0, byShop[shopB.ID].Price)

	// Cart is emptied and popularity tallies bumped.
	lines, err := carts.Lines(buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	var fresh models.Item
	require.NoError(t, db.First(&fresh, itemA.ID).Error)
	assert.Equal(t, int64(1), fresh.OrderedCount)
}

func TestPlaceOrderSkipsVanishedItems(t *testing.T) {
	db := setupDB(t)

	buyer := createUser(t, db, "Asha", "9000000001", models.RoleUser)
	shop := createShopkeeper(t, db, "Ravi", "9000000002")
	live := createItem(t, db, shop.ID, "Broom", 100)
	gone := createItem(t, db, shop.ID, "Mop", 50)

	carts := repositories.NewCartRepository()
	require.NoError(t, carts.Add(buyer.ID, live.ID, 1))
	require.NoError(t, carts.Add(buyer.ID, gone.ID, 3))
	require.NoError(t, db.Model(&models.Item{}).Where("id = ?", gone.ID).
		Update("is_available", false).Error)

	orderID, err := services.NewCartService().PlaceOrder(buyer.ID)
	require.NoError(t, err)

	order, err := repositories.NewOrderRepository().FindByID(orderID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, order.Price)
	require.Len(t, order.Packs, 1)
	assert.Equal(t, live.ID, order.Packs[0].ItemID)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := setupDB(t)
	buyer := createUser(t, db, "Asha", "9000000001", models.RoleUser)

	_, err := services.NewCartService().PlaceOrder(buyer.ID)
	msg, ok := services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Cart is empty", msg)
}

func TestCancelPackDecrementsOnce(t *testing.T) {
	db := setupDB(t)

	buyer := createUser(t, db, "Asha", "9000000001", models.RoleUser)
	shop := createShopkeeper(t, db, "Ravi", "9000000002")
	item := createItem(t, db, shop.ID, "Broom", 100)

	carts := repositories.NewCartRepository()
	require.NoError(t, carts.Add(buyer.ID, item.ID, 1))
	orderID, err := services.NewCartService().PlaceOrder(buyer.ID)
	require.NoError(t, err)

	order, err := repositories.NewOrderRepository().FindByID(orderID)
	require.NoError(t, err)
	packID := order.Packs[0].ID

	svc := services.NewOrderService()
	require.NoError(t, svc.CancelPack(buyer.ID, packID))

	var fresh models.Item
	require.NoError(t, db.First(&fresh, item.ID).Error)
	assert.Equal(t, int64(0), fresh.OrderedCount)

	err = svc.CancelPack(buyer.ID, packID)
	msg, ok := services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Item order pack already cancelled", msg)

	// The tally is handed back exactly once.
	require.NoError(t, db.First(&fresh, item.ID).Error)
	assert.Equal(t, int64(0), fresh.OrderedCount)
}

func TestChangePackStatusFollowsTable(t *testing.T) {
	db := setupDB(t)

	buyer := createUser(t, db, "Asha", "9000000001", models.RoleUser)
	shop := createShopkeeper(t, db, "Ravi", "9000000002")
	item := createItem(t, db, shop.ID, "Broom", 100)

	carts := repositories.NewCartRepository()
	require.NoError(t, carts.Add(buyer.ID, item.ID, 1))
	orderID, err := services.NewCartService().PlaceOrder(buyer.ID)
	require.NoError(t, err)

	orders := repositories.NewOrderRepository()
	order, err := orders.FindByID(orderID)
	require.NoError(t, err)
	packID := order.Packs[0].ID

	svc := services.NewOrderService()

	// PENDING cannot jump straight to DELIVERED.
	err = svc.ChangePackStatus(shop.ID, packID, models.StatusDelivered)
	msg, ok := services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid status change", msg)

	require.NoError(t, svc.ChangePackStatus(shop.ID, packID, models.StatusDispatched))
	require.NoError(t, svc.ChangePackStatus(shop.ID, packID, models.StatusDelivered))

	pack, err := orders.FindPack(packID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, pack.Status)
	assert.NotNil(t, pack.DeliveredDate)

	// DELIVERED is terminal.
	err = svc.ChangePackStatus(shop.ID, packID, models.StatusCancelled)
	msg, ok = services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid status change", msg)
}

func TestChangePackStatusShippingPathOnly(t *testing.T) {
	db := setupDB(t)

	buyer := createUser(t, db, "Asha", "9000000001", models.RoleUser)
	shop := createShopkeeper(t, db, "Ravi", "9000000002")
	item := createItem(t, db, shop.ID, "Broom", 100)

	carts := repositories.NewCartRepository()
	require.NoError(t, carts.Add(buyer.ID, item.ID, 1))
	orderID, err := services.NewCartService().PlaceOrder(buyer.ID)
	require.NoError(t, err)

	orders := repositories.NewOrderRepository()
	order, err := orders.FindByID(orderID)
	require.NoError(t, err)
	packID := order.Packs[0].ID

	svc := services.NewOrderService()

	// BEING_SERVED belongs to service orders; an item pack never takes it.
	err = svc.ChangePackStatus(shop.ID, packID, models.StatusBeingServed)
	msg, ok := services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid status change", msg)

	// Cancellation only goes through CancelPack, so the popularity tally
	// is never skipped.
	err = svc.ChangePackStatus(shop.ID, packID, models.StatusCancelled)
	msg, ok = services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid status change", msg)

	pack, err := orders.FindPack(packID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, pack.Status)

	var fresh models.Item
	require.NoError(t, db.First(&fresh, item.ID).Error)
	assert.Equal(t, int64(1), fresh.OrderedCount)

	require.NoError(t, svc.CancelPack(buyer.ID, packID))
	require.NoError(t, db.First(&fresh, item.ID).Error)
	assert.Equal(t, int64(0), fresh.OrderedCount)
}

func TestPackOperationsCheckOwnership(t *testing.T) {
	db := setupDB(t)

	buyer := createUser(t, db, "Asha", "9000000001", models.RoleUser)
	shop := createShopkeeper(t, db, "Ravi", "9000000002")
	otherShop := createShopkeeper(t, db, "Meena", "9000000003")
	stranger := createUser(t, db, "Shyam", "9000000004", models.RoleUser)
	item := createItem(t, db, shop.ID, "Broom", 100)

	carts := repositories.NewCartRepository()
	require.NoError(t, carts.Add(buyer.ID, item.ID, 1))
	orderID, err := services.NewCartService().PlaceOrder(buyer.ID)
	require.NoError(t, err)

	orders := repositories.NewOrderRepository()
	order, err := orders.FindByID(orderID)
	require.NoError(t, err)
	packID := order.Packs[0].ID

	svc := services.NewOrderService()

	// Only the pack's shopkeeper may advance it.
	err = svc.ChangePackStatus(otherShop.ID, packID, models.StatusDispatched)
	msg, ok := services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Item order pack not found", msg)

	// Only the buyer or the pack's shopkeeper may cancel it.
	err = svc.CancelPack(stranger.ID, packID)
	msg, ok = services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Item order pack not found", msg)

	// Only the buyer may re-place the order.
	_, err = svc.Replace(stranger.ID, orderID)
	msg, ok = services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Item order not found", msg)

	pack, err := orders.FindPack(packID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, pack.Status)

	// The shopkeeper may cancel their own pack.
	require.NoError(t, svc.CancelPack(shop.ID, packID))
}

func TestTransitionPackLostRace(t *testing.T) {
	db := setupDB(t)

	buyer := createUser(t, db, "Asha", "9000000001", models.RoleUser)
	shop := createShopkeeper(t, db, "Ravi", "9000000002")
	item := createItem(t, db, shop.ID, "Broom", 100)

	carts := repositories.NewCartRepository()
	require.NoError(t, carts.Add(buyer.ID, item.ID, 1))
	orderID, err := services.NewCartService().PlaceOrder(buyer.ID)
	require.NoError(t, err)

	orders := repositories.NewOrderRepository()
	order, err := orders.FindByID(orderID)
	require.NoError(t, err)
	stale := order.Packs[0]

	ok, err := orders.TransitionPack(&stale, models.StatusDispatched)
	require.NoError(t, err)
	require.True(t, ok)

	// The struct still carries the pre-transition version, so a second
	// update from the same snapshot loses the race.
	ok, err = orders.TransitionPack(&stale, models.StatusCancelled)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReplaceRepricesAtCurrentPrices(t *testing.T) {
	db := setupDB(t)

	buyer := createUser(t, db, "Asha", "9000000001", models.RoleUser)
	shop := createShopkeeper(t, db, "Ravi", "9000000002")
	item := createItem(t, db, shop.ID, "Broom", 100)

	carts := repositories.NewCartRepository()
	require.NoError(t, carts.Add(buyer.ID, item.ID, 2))
	oldID, err := services.NewCartService().PlaceOrder(buyer.ID)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Item{}).Where("id = ?", item.ID).
		Update("price", 120.0).Error)

	freshID, err := services.NewOrderService().Replace(buyer.ID, oldID)
	require.NoError(t, err)
	require.NotEqual(t, oldID, freshID)

	fresh, err := repositories.NewOrderRepository().FindByID(freshID)
	require.NoError(t, err)
	assert.Equal(t, 240.0, fresh.Price)
	require.Len(t, fresh.Packs, 1)
	assert.Equal(t, models.StatusPending, fresh.Packs[0].Status)
}
