package controllers

import (
	"github.com/chhotalabhavik/cleanout/app/repositories"
	"github.com/chhotalabhavik/cleanout/app/services"
	"github.com/chhotalabhavik/cleanout/pkg/ctx"
	"github.com/chhotalabhavik/cleanout/pkg/response"
)

// AdminController backs the admin console.
type AdminController struct {
	service *services.AdminService
}

func NewAdminController() *AdminController {
	return &AdminController{service: services.NewAdminService()}
}

// InitialData serves the dashboard counts.
func (ac *AdminController) InitialData(c *ctx.Context) {
	counts, err := ac.service.InitialData()
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Found counts", response.M{
		"totalUsers":         counts.TotalUsers,
		"totalWorkers":       counts.TotalWorkers,
		"totalShopkeepers":   counts.TotalShopkeepers,
		"totalItemOrders":    counts.TotalItemOrders,
		"totalServiceOrders": counts.TotalServiceOrders,
	})
}

// providerFilter builds the search filter from the console's query
// parameters. search pairs with searchBy (phone, pincode or name);
// verification is "verified", "unverified" or "any".
func providerFilter(c *ctx.Context) repositories.ProviderFilter {
	var f repositories.ProviderFilter
	search := c.Query("search")

	switch c.Query("searchBy") {
	case "pincode":
		f.Pincode = search
	case "name":
		f.Name = search
	default:
		f.Phone = search
	}

	switch c.Query("verification") {
	case "verified":
		v := true
		f.Verified = &v
	case "unverified":
		v := false
		f.Verified = &v
	}
	return f
}

// GetUsers searches workers or shopkeepers for the console.
func (ac *AdminController) GetUsers(c *ctx.Context) {
	filter := providerFilter(c)

	if c.Query("searchFor") == "shopkeeper" {
		shopkeepers, pagination, err := ac.service.SearchShopkeepers(filter, page(c))
		if err != nil {
			renderError(c, err)
			return
		}
		c.OK("Found users", response.M{"users": shopkeepers, "totalItems": pagination.Total})
		return
	}

	workers, pagination, err := ac.service.SearchWorkers(filter, page(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Found users", response.M{"users": workers, "totalItems": pagination.Total})
}

// VerifyServiceProvider approves a worker's or shopkeeper's papers.
func (ac *AdminController) VerifyServiceProvider(c *ctx.Context) {
	var body struct {
		UserID uint `json:"userId" validate:"required"`
	}
	if !c.BindJSON(&body) {
		return
	}

	if err := ac.service.VerifyServiceProvider(body.UserID); err != nil {
		renderError(c, err)
		return
	}
	c.OK("Verified", nil)
}

// ToggleCoadmin flips a user into or out of the COADMIN role.
func (ac *AdminController) ToggleCoadmin(c *ctx.Context) {
	var body struct {
		UserID uint `json:"userId" validate:"required"`
	}
	if !c.BindJSON(&body) {
		return
	}

	role, err := ac.service.ToggleCoadmin(body.UserID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Role changed", response.M{"role": role})
}
