package controllers

import (
	"github.com/chhotalabhavik/cleanout/app/services"
	"github.com/chhotalabhavik/cleanout/pkg/ctx"
	"github.com/chhotalabhavik/cleanout/pkg/response"
)

// UserController covers plain USER accounts.
type UserController struct {
	service *services.UserService
}

func NewUserController() *UserController {
	return &UserController{service: services.NewUserService()}
}

func (uc *UserController) Register(c *ctx.Context) {
	var input services.RegisterUserInput
	if !c.BindJSON(&input) {
		return
	}

	user, err := uc.service.Register(input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Registered user", response.M{"id": user.ID})
}

func (uc *UserController) Profile(c *ctx.Context) {
	userID, ok := authorizeUser(c)
	if !ok {
		return
	}

	user, err := uc.service.Profile(userID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("User found", response.M{"user": user})
}

func (uc *UserController) Update(c *ctx.Context) {
	userID, ok := authorizeUser(c)
	if !ok {
		return
	}

	var input services.UpdateUserInput
	if !c.BindJSON(&input) {
		return
	}

	user, err := uc.service.Update(userID, input, isConsole(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Updated user", response.M{"user": user})
}

func (uc *UserController) Delete(c *ctx.Context) {
	userID, ok := authorizeUser(c)
	if !ok {
		return
	}

	if err := uc.service.Delete(userID); err != nil {
		renderError(c, err)
		return
	}
	c.OK("Deleted user", nil)
}

func (uc *UserController) Address(c *ctx.Context) {
	userID, ok := authorizeUser(c)
	if !ok {
		return
	}

	address, err := uc.service.Address(userID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Address found", response.M{"address": address})
}
