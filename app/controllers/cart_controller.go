package controllers

import (
	"github.com/chhotalabhavik/cleanout/app/services"
	"github.com/chhotalabhavik/cleanout/pkg/ctx"
	"github.com/chhotalabhavik/cleanout/pkg/response"
)

// CartController covers the cart and order placement.
type CartController struct {
	service *services.CartService
}

func NewCartController() *CartController {
	return &CartController{service: services.NewCartService()}
}

func (cc *CartController) Get(c *ctx.Context) {
	lines, err := cc.service.Get(c.UserID())
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Found cart", response.M{"cart": lines})
}

func (cc *CartController) ChangeCount(c *ctx.Context) {
	var body struct {
		Count int `json:"count" validate:"gte=0"`
	}
	if !c.BindJSON(&body) {
		return
	}

	pack, err := cc.service.ChangeCount(c.ParamUint("packId"), body.Count)
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Updated item count", response.M{"pack": pack})
}

func (cc *CartController) Clear(c *ctx.Context) {
	if err := cc.service.Clear(c.UserID()); err != nil {
		renderError(c, err)
		return
	}
	c.OK("Cleared cart", nil)
}

// PlaceOrder converts the cart into an order split per shopkeeper.
func (cc *CartController) PlaceOrder(c *ctx.Context) {
	orderID, err := cc.service.PlaceOrder(c.UserID())
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Placed order", response.M{"id": orderID})
}
