package controllers

import (
	"github.com/chhotalabhavik/cleanout/app/services"
	"github.com/chhotalabhavik/cleanout/pkg/ctx"
	"github.com/chhotalabhavik/cleanout/pkg/response"
)

// ServiceOrderController covers service bookings and their OTP-gated
// lifecycle.
type ServiceOrderController struct {
	service *services.ServiceOrderService
}

func NewServiceOrderController() *ServiceOrderController {
	return &ServiceOrderController{service: services.NewServiceOrderService()}
}

// Book places a booking against one storefront listing.
func (sc *ServiceOrderController) Book(c *ctx.Context) {
	var body struct {
		MetaData []services.BookLine `json:"metaData" validate:"required"`
	}
	if !c.BindJSON(&body) {
		return
	}

	orderID, err := sc.service.Book(c.UserID(), c.ParamUint("workerServiceId"), body.MetaData)
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Placed order", response.M{"id": orderID})
}

func (sc *ServiceOrderController) Get(c *ctx.Context) {
	order, err := sc.service.Get(c.ParamUint("orderId"))
	if err != nil {
		renderError(c, err)
		return
	}
	if order.UserID != c.UserID() && order.WorkerID != c.UserID() && !isConsole(c) {
		c.Forbidden()
		return
	}
	c.OK("Found service order", response.M{"order": order})
}

// Mine pages the caller's bookings.
func (sc *ServiceOrderController) Mine(c *ctx.Context) {
	orders, pagination, err := sc.service.ForUser(c.UserID(), page(c), c.QueryInt("perPage", 10))
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Found service order", response.M{"orders": orders, "totalItems": pagination.Total})
}

// Assigned pages the bookings assigned to the calling worker.
func (sc *ServiceOrderController) Assigned(c *ctx.Context) {
	orders, pagination, err := sc.service.ForWorker(c.UserID(), page(c), c.QueryInt("perPage", 10))
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Found service order", response.M{"orders": orders, "totalItems": pagination.Total})
}

// Done completes a booking the worker has been serving.
func (sc *ServiceOrderController) Done(c *ctx.Context) {
	if err := sc.service.Done(c.ParamUint("orderId")); err != nil {
		renderError(c, err)
		return
	}
	c.OK("Delivered order", nil)
}

func (sc *ServiceOrderController) Cancel(c *ctx.Context) {
	if err := sc.service.Cancel(c.ParamUint("orderId")); err != nil {
		renderError(c, err)
		return
	}
	c.OK("Cancelled order", nil)
}

// Replace re-books an old order with the same worker and price.
func (sc *ServiceOrderController) Replace(c *ctx.Context) {
	orderID, err := sc.service.Replace(c.ParamUint("orderId"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.OK("Replaced order", response.M{"id": orderID})
}

// SendOTP mails the delivery code to the booking's customer.
func (sc *ServiceOrderController) SendOTP(c *ctx.Context) {
	if err := sc.service.SendOTP(c.ParamUint("orderId")); err != nil {
		renderError(c, err)
		return
	}
	c.OK("Sent OTP", nil)
}

// VerifyOTP checks the worker-presented code and starts the work.
func (sc *ServiceOrderController) VerifyOTP(c *ctx.Context) {
	var body struct {
		OTP string `json:"otp" validate:"required,digits=6"`
	}
	if !c.BindJSON(&body) {
		return
	}

	if err := sc.service.VerifyOTP(c.ParamUint("orderId"), body.OTP); err != nil {
		renderError(c, err)
		return
	}
	c.OK("Correct OTP", nil)
}
