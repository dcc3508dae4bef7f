package controllers

import (
	"encoding/json"

	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/app/services"
	"github.com/chhotalabhavik/cleanout/pkg/ctx"
	"github.com/chhotalabhavik/cleanout/pkg/response"
)

// ServiceController covers provider-side service CRUD, the services
// storefront and the category catalogue.
type ServiceController struct {
	service *services.ServiceCatalogService
}

func NewServiceController() *ServiceController {
	return &ServiceController{service: services.NewServiceCatalogService()}
}

func (sc *ServiceController) Get(c *ctx.Context) {
	service, err := sc.service.Get(c.ParamUint("serviceId"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Found service", response.M{"service": service})
}

// GetWorkerService fetches one storefront listing.
func (sc *ServiceController) GetWorkerService(c *ctx.Context) {
	ws, err := sc.service.GetWorkerService(c.ParamUint("workerServiceId"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Found service", response.M{"workerService": ws})
}

// Owned lists the calling provider's services.
func (sc *ServiceController) Owned(c *ctx.Context) {
	list, err := sc.service.OwnedBy(c.UserID())
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Found services", response.M{"services": list})
}

func (sc *ServiceController) Add(c *ctx.Context) {
	var input services.ServiceInput
	if !c.BindJSON(&input) {
		return
	}

	service, err := sc.service.Add(c.UserID(), input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Added service", response.M{"service": service})
}

func (sc *ServiceController) Update(c *ctx.Context) {
	var input services.ServiceInput
	if !c.BindJSON(&input) {
		return
	}

	service, err := sc.service.Update(c.UserID(), c.ParamUint("serviceId"), input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Updated service", response.M{"service": service})
}

func (sc *ServiceController) Delete(c *ctx.Context) {
	if err := sc.service.Delete(c.UserID(), c.ParamUint("serviceId")); err != nil {
		renderError(c, err)
		return
	}
	c.OK("Deleted service", nil)
}

// Store pages the services storefront for a pincode.
func (sc *ServiceController) Store(c *ctx.Context) {
	var subCategories []string
	if raw := c.Query("subCategories"); raw != "" {
		// The client sends the selected variants as a JSON array.
		if err := json.Unmarshal([]byte(raw), &subCategories); err != nil {
			c.Error(400, "Malformed subCategories")
			return
		}
	}

	links, pagination, err := sc.service.Store(
		c.Query("pincode"),
		c.Query("category"),
		c.Query("sortBy"),
		subCategories,
		page(c),
	)
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Found services", response.M{"workerServices": links, "totalItems": pagination.Total})
}

// ─── categories ───────────────────────────────────────────────────────────────

func (sc *ServiceController) Categories(c *ctx.Context) {
	categories, err := sc.service.Categories()
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Found service categories", response.M{"serviceCategories": categories})
}

// bindCategoryForm reads the multipart category form with its optional
// image and JSON-encoded sub-category list.
func bindCategoryForm(c *ctx.Context) (services.CategoryInput, bool) {
	if err := c.R.ParseMultipartForm(maxUploadBytes); err != nil {
		c.Error(400, "Malformed form")
		return services.CategoryInput{}, false
	}

	input := services.CategoryInput{Category: c.PostForm("category")}
	if raw := c.PostForm("subCategories"); raw != "" {
		var subs []models.CategorySubCategory
		if err := json.Unmarshal([]byte(raw), &subs); err != nil {
			c.Error(400, "Malformed subCategories")
			return services.CategoryInput{}, false
		}
		input.SubCategories = subs
	}

	var err error
	if input.Image, err = saveUpload(c, "image", "category"); err != nil {
		renderError(c, err)
		return services.CategoryInput{}, false
	}

	if errs := c.Validate(input); errs != nil {
		c.ValidationError(errs)
		return services.CategoryInput{}, false
	}
	return input, true
}

func (sc *ServiceController) AddCategory(c *ctx.Context) {
	input, ok := bindCategoryForm(c)
	if !ok {
		return
	}

	category, err := sc.service.AddCategory(input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Service category added", response.M{"serviceCategory": category})
}

func (sc *ServiceController) UpdateCategory(c *ctx.Context) {
	input, ok := bindCategoryForm(c)
	if !ok {
		return
	}

	category, err := sc.service.UpdateCategory(c.ParamUint("categoryId"), input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Service category changed", response.M{"serviceCategory": category})
}

func (sc *ServiceController) DeleteCategory(c *ctx.Context) {
	if err := sc.service.DeleteCategory(c.ParamUint("categoryId")); err != nil {
		renderError(c, err)
		return
	}
	c.OK("Service category deleted", nil)
}
