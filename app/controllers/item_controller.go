package controllers

import (
	"github.com/chhotalabhavik/cleanout/app/services"
	"github.com/chhotalabhavik/cleanout/pkg/ctx"
	"github.com/chhotalabhavik/cleanout/pkg/response"
)

// ItemController covers the item catalogue and the buyer storefront.
type ItemController struct {
	service *services.ItemService
}

func NewItemController() *ItemController {
	return &ItemController{service: services.NewItemService()}
}

func (ic *ItemController) Get(c *ctx.Context) {
	item, err := ic.service.Get(c.ParamUint("itemId"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Found item", response.M{"item": item})
}

// bindItemForm reads the multipart add/update form, storing the image
// when one was attached.
func bindItemForm(c *ctx.Context) (services.ItemInput, bool) {
	if err := c.R.ParseMultipartForm(maxUploadBytes); err != nil {
		c.Error(400, "Malformed form")
		return services.ItemInput{}, false
	}

	input := services.ItemInput{
		ItemName:    c.PostForm("itemName"),
		Price:       formFloat(c, "price"),
		Description: c.PostForm("description"),
		IsAvailable: c.PostForm("isAvailable") != "false",
	}

	var err error
	if input.ItemImage, err = saveUpload(c, "itemImage", "item"); err != nil {
		renderError(c, err)
		return services.ItemInput{}, false
	}

	if errs := c.Validate(input); errs != nil {
		c.ValidationError(errs)
		return services.ItemInput{}, false
	}
	return input, true
}

func (ic *ItemController) Add(c *ctx.Context) {
	input, ok := bindItemForm(c)
	if !ok {
		return
	}

	item, err := ic.service.Add(c.UserID(), input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Added item", response.M{"item": item})
}

func (ic *ItemController) Update(c *ctx.Context) {
	input, ok := bindItemForm(c)
	if !ok {
		return
	}

	item, err := ic.service.Update(c.UserID(), c.ParamUint("itemId"), input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Updated item", response.M{"item": item})
}

func (ic *ItemController) Delete(c *ctx.Context) {
	if err := ic.service.Delete(c.UserID(), c.ParamUint("itemId")); err != nil {
		renderError(c, err)
		return
	}
	c.OK("Deleted item", nil)
}

// Owned pages the shopkeeper's own items.
func (ic *ItemController) Owned(c *ctx.Context) {
	items, pagination, err := ic.service.OwnedBy(c.UserID(), page(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Items found", response.M{"items": items, "totalItems": pagination.Total})
}

// Random serves the home-page item picks.
func (ic *ItemController) Random(c *ctx.Context) {
	items, err := ic.service.Random()
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Items found", response.M{"items": items})
}

// Store pages the buyer storefront with search and sort.
func (ic *ItemController) Store(c *ctx.Context) {
	items, pagination, err := ic.service.Store(c.Query("search"), c.Query("sortBy"), page(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Items found", response.M{"items": items, "totalItems": pagination.Total})
}

// AddToCart puts the item into the caller's cart.
func (ic *ItemController) AddToCart(c *ctx.Context) {
	var body struct {
		Count int `json:"count"`
	}
	if !c.BindJSON(&body) {
		return
	}

	if err := ic.service.AddToCart(c.UserID(), c.ParamUint("itemId"), body.Count); err != nil {
		renderError(c, err)
		return
	}
	c.OK("Added item to cart", nil)
}
