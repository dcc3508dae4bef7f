package controllers

import (
	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/app/services"
	"github.com/chhotalabhavik/cleanout/pkg/ctx"
	"github.com/chhotalabhavik/cleanout/pkg/response"
)

// RatingController covers reviews of items and worker services.
type RatingController struct {
	service *services.RatingService
}

func NewRatingController() *RatingController {
	return &RatingController{service: services.NewRatingService()}
}

// targetKind maps the path segment onto the rating target.
func targetKind(c *ctx.Context) string {
	if c.Param("kind") == "service" {
		return models.TargetService
	}
	return models.TargetItem
}

// Mine fetches the caller's review of the target.
func (rc *RatingController) Mine(c *ctx.Context) {
	rating, err := rc.service.Mine(c.UserID(), c.ParamUint("targetId"), targetKind(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Found rating", response.M{"rating": rating})
}

// List pages the written reviews of the target.
func (rc *RatingController) List(c *ctx.Context) {
	ratings, pagination, err := rc.service.ListForTarget(c.ParamUint("targetId"), targetKind(c), page(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Found ratings", response.M{"ratings": ratings, "totalItems": pagination.Total})
}

func (rc *RatingController) Add(c *ctx.Context) {
	var input services.RatingInput
	if !c.BindJSON(&input) {
		return
	}

	rating, err := rc.service.Add(c.UserID(), c.ParamUint("targetId"), targetKind(c), input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Added rating", response.M{"rating": rating})
}

func (rc *RatingController) Update(c *ctx.Context) {
	var input services.RatingInput
	if !c.BindJSON(&input) {
		return
	}

	rating, err := rc.service.Update(c.UserID(), c.ParamUint("targetId"), targetKind(c), input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Updated rating", response.M{"rating": rating})
}

func (rc *RatingController) Delete(c *ctx.Context) {
	if err := rc.service.Delete(c.UserID(), c.ParamUint("targetId"), targetKind(c)); err != nil {
		renderError(c, err)
		return
	}
	c.OK("Deleted rating", nil)
}
