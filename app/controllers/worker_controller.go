package controllers

import (
	"github.com/chhotalabhavik/cleanout/app/services"
	"github.com/chhotalabhavik/cleanout/pkg/ctx"
	"github.com/chhotalabhavik/cleanout/pkg/response"
)

// WorkerController covers WORKER accounts and their side of the
// shop-affiliation workflow.
type WorkerController struct {
	service *services.WorkerAccountService
}

func NewWorkerController() *WorkerController {
	return &WorkerController{service: services.NewWorkerAccountService()}
}

// maxUploadBytes caps multipart registration bodies.
const maxUploadBytes = 20 << 20

// pincodes reads the repeated pincodes form field.
func pincodes(c *ctx.Context) []string {
	if c.R.MultipartForm == nil {
		return nil
	}
	return c.R.MultipartForm.Value["pincodes"]
}

// Register takes a multipart form: account fields plus profile picture
// and proof documents.
func (wc *WorkerController) Register(c *ctx.Context) {
	if err := c.R.ParseMultipartForm(maxUploadBytes); err != nil {
		c.Error(400, "Malformed form")
		return
	}

	input := services.RegisterWorkerInput{
		UserName: c.PostForm("userName"),
		Phone:    c.PostForm("phone"),
		Password: c.PostForm("password"),
		Society:  c.PostForm("society"),
		Area:     c.PostForm("area"),
		Pincode:  c.PostForm("pincode"),
		City:     c.PostForm("city"),
		State:    c.PostForm("state"),
		Pincodes: pincodes(c),
	}

	var err error
	if input.ProfilePicture, err = saveUpload(c, "profilePicture", "worker"); err != nil {
		renderError(c, err)
		return
	}
	if input.Proof1, err = saveUpload(c, "proof1", "worker"); err != nil {
		renderError(c, err)
		return
	}
	if input.Proof2, err = saveUpload(c, "proof2", "worker"); err != nil {
		renderError(c, err)
		return
	}

	if errs := c.Validate(input); errs != nil {
		c.ValidationError(errs)
		return
	}

	user, err := wc.service.Register(input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Registered worker", response.M{"id": user.ID})
}

func (wc *WorkerController) Profile(c *ctx.Context) {
	workerID, ok := authorizeUser(c)
	if !ok {
		return
	}

	worker, err := wc.service.Profile(workerID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("User found", response.M{"worker": worker})
}

func (wc *WorkerController) Update(c *ctx.Context) {
	workerID, ok := authorizeUser(c)
	if !ok {
		return
	}

	if err := c.R.ParseMultipartForm(maxUploadBytes); err != nil {
		c.Error(400, "Malformed form")
		return
	}

	input := services.UpdateWorkerInput{
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
		Pincodes: pincodes(c),
	}

	var err error
	if input.ProfilePicture, err = saveUpload(c, "profilePicture", "worker"); err != nil {
		renderError(c, err)
		return
	}
	if input.Proof1, err = saveUpload(c, "proof1", "worker"); err != nil {
		renderError(c, err)
		return
	}
	if input.Proof2, err = saveUpload(c, "proof2", "worker"); err != nil {
		renderError(c, err)
		return
	}

	if errs := c.Validate(input); errs != nil {
		c.ValidationError(errs)
		return
	}

	worker, err := wc.service.Update(workerID, input, isConsole(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Updated worker", response.M{"worker": worker})
}

func (wc *WorkerController) Delete(c *ctx.Context) {
	workerID, ok := authorizeUser(c)
	if !ok {
		return
	}

	if err := wc.service.Delete(workerID); err != nil {
		renderError(c, err)
		return
	}
	c.OK("Deleted worker", nil)
}

func (wc *WorkerController) LeaveShop(c *ctx.Context) {
	if err := wc.service.LeaveShop(c.UserID()); err != nil {
		renderError(c, err)
		return
	}
	c.OK("Left shop", nil)
}

// ShopRequest returns the pending shop invitation.
func (wc *WorkerController) ShopRequest(c *ctx.Context) {
	shop, err := wc.service.ShopRequest(c.UserID())
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Request found", response.M{"shopkeeper": shop})
}

// RespondToShopRequest accepts or rejects the pending invitation.
func (wc *WorkerController) RespondToShopRequest(c *ctx.Context) {
	var body struct {
		Accept bool `json:"accept"`
	}
	if !c.BindJSON(&body) {
		return
	}

	if err := wc.service.RespondToShopRequest(c.UserID(), body.Accept); err != nil {
		renderError(c, err)
		return
	}
	if body.Accept {
		c.OK("Request accepted", nil)
		return
	}
	c.OK("Rejected request", nil)
}
