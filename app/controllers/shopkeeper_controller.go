package controllers

import (
	"github.com/chhotalabhavik/cleanout/app/services"
	"github.com/chhotalabhavik/cleanout/pkg/ctx"
	"github.com/chhotalabhavik/cleanout/pkg/response"
)

// ShopkeeperController covers SHOPKEEPER accounts and the shop's side of
// the worker-affiliation workflow.
type ShopkeeperController struct {
	service *services.ShopkeeperAccountService
}

func NewShopkeeperController() *ShopkeeperController {
	return &ShopkeeperController{service: services.NewShopkeeperAccountService()}
}

func (sc *ShopkeeperController) Register(c *ctx.Context) {
	if err := c.R.ParseMultipartForm(maxUploadBytes); err != nil {
		c.Error(400, "Malformed form")
		return
	}

	input := services.RegisterShopkeeperInput{
		UserName: c.PostForm("userName"),
		Phone:    c.PostForm("phone"),
		Password: c.PostForm("password"),
		ShopName: c.PostForm("shopName"),
		Society:  c.PostForm("society"),
		Area:     c.PostForm("area"),
		Pincode:  c.PostForm("pincode"),
		City:     c.PostForm("city"),
		State:    c.PostForm("state"),
	}

	var err error
	if input.Proof1, err = saveUpload(c, "proof1", "shopkeeper"); err != nil {
		renderError(c, err)
		return
	}
	if input.Proof2, err = saveUpload(c, "proof2", "shopkeeper"); err != nil {
		renderError(c, err)
		return
	}

	if errs := c.Validate(input); errs != nil {
		c.ValidationError(errs)
		return
	}

	user, err := sc.service.Register(input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Registered shopkeeper", response.M{"id": user.ID})
}

func (sc *ShopkeeperController) Profile(c *ctx.Context) {
	shopkeeperID, ok := authorizeUser(c)
	if !ok {
		return
	}

	shop, err := sc.service.Profile(shopkeeperID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("User found", response.M{"shopkeeper": shop})
}

func (sc *ShopkeeperController) Update(c *ctx.Context) {
	shopkeeperID, ok := authorizeUser(c)
	if !ok {
		return
	}

	if err := c.R.ParseMultipartForm(maxUploadBytes); err != nil {
		c.Error(400, "Malformed form")
		return
	}

	input := services.UpdateShopkeeperInput{
		UpdateUserInput: services.UpdateUserInput{
			UserName:    c.PostForm("userName"),
			Password:    c.PostForm("password"),
			NewPassword: c.PostForm("newPassword"),
			Society:     c.PostForm("society"),
			Area:        c.PostForm("area"),
			Pincode:     c.PostForm("pincode"),
			City:        c.PostForm("city"),
			State:       c.PostForm("state"),
		},
		ShopName: c.PostForm("shopName"),
	}

	var err error
	if input.Proof1, err = saveUpload(c, "proof1", "shopkeeper"); err != nil {
		renderError(c, err)
		return
	}
	if input.Proof2, err = saveUpload(c, "proof2", "shopkeeper"); err != nil {
		renderError(c, err)
		return
	}

	if errs := c.Validate(input); errs != nil {
		c.ValidationError(errs)
		return
	}

	shop, err := sc.service.Update(shopkeeperID, input, isConsole(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Updated shopkeeper", response.M{"shopkeeper": shop})
}

func (sc *ShopkeeperController) Delete(c *ctx.Context) {
	shopkeeperID, ok := authorizeUser(c)
	if !ok {
		return
	}

	if err := sc.service.Delete(shopkeeperID); err != nil {
		renderError(c, err)
		return
	}
	c.OK("Deleted shopkeeper", nil)
}

// Workers lists the shop's dependent workers.
func (sc *ShopkeeperController) Workers(c *ctx.Context) {
	workers, err := sc.service.Workers(c.UserID())
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Found workers", response.M{"workers": workers})
}

// AddWorker invites a worker by phone.
func (sc *ShopkeeperController) AddWorker(c *ctx.Context) {
	var body struct {
		Phone string `json:"phone" validate:"required,digits=10"`
	}
	if !c.BindJSON(&body) {
		return
	}

	if err := sc.service.AddWorker(c.UserID(), body.Phone); err != nil {
		renderError(c, err)
		return
	}
	c.OK("Sent request", nil)
}

// RemoveWorker detaches a dependent worker from the shop.
func (sc *ShopkeeperController) RemoveWorker(c *ctx.Context) {
	workerID := c.ParamUint("workerId")
	name, err := sc.service.RemoveWorker(c.UserID(), workerID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK(name+" removed from shop", nil)
}
