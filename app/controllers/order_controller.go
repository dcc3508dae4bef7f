package controllers

import (
	"github.com/chhotalabhavik/cleanout/app/services"
	"github.com/chhotalabhavik/cleanout/pkg/ctx"
	"github.com/chhotalabhavik/cleanout/pkg/response"
)

// OrderController covers the item-order lifecycle after placement.
type OrderController struct {
	service *services.OrderService
}

func NewOrderController() *OrderController {
	return &OrderController{service: services.NewOrderService()}
}

func (oc *OrderController) Get(c *ctx.Context) {
	order, err := oc.service.Get(c.ParamUint("orderId"))
	if err != nil {
		renderError(c, err)
		return
	}
	if order.UserID != c.UserID() && !isConsole(c) {
		c.Forbidden()
		return
	}
	c.OK("Item order found", response.M{"order": order})
}

// Mine pages the caller's orders.
func (oc *OrderController) Mine(c *ctx.Context) {
	orders, pagination, err := oc.service.ForUser(c.UserID(), page(c), c.QueryInt("perPage", 10))
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Item order found", response.M{"orders": orders, "totalItems": pagination.Total})
}

// ForShop pages the packs addressed to the calling shopkeeper.
func (oc *OrderController) ForShop(c *ctx.Context) {
	packs, pagination, err := oc.service.ForShopkeeper(c.UserID(), page(c), c.QueryInt("perPage", 10))
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Item order found", response.M{"packs": packs, "totalItems": pagination.Total})
}

// ChangeStatus advances one pack along the status machine.
func (oc *OrderController) ChangeStatus(c *ctx.Context) {
	var body struct {
		Status string `json:"status" validate:"required"`
	}
	if !c.BindJSON(&body) {
		return
	}

	if err := oc.service.ChangePackStatus(c.UserID(), c.ParamUint("packId"), body.Status); err != nil {
		renderError(c, err)
		return
	}
	c.OK("Changed status", nil)
}

// CancelPack cancels one pack of an order on behalf of its buyer or
// shopkeeper.
func (oc *OrderController) CancelPack(c *ctx.Context) {
	if err := oc.service.CancelPack(c.UserID(), c.ParamUint("packId")); err != nil {
		renderError(c, err)
		return
	}
	c.OK("Item order pack cancelled", nil)
}

// Replace re-places one of the caller's old orders at current prices.
func (oc *OrderController) Replace(c *ctx.Context) {
	orderID, err := oc.service.Replace(c.UserID(), c.ParamUint("orderId"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Placed order", response.M{"id": orderID})
}
