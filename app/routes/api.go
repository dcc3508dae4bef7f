// Package routes wires the HTTP surface: every API endpoint, its route
// name and the middleware protecting it.
package routes

import (
	"net/http"

	"github.com/chhotalabhavik/cleanout/app/controllers"
	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/pkg/ctx"
	"github.com/chhotalabhavik/cleanout/pkg/middleware"
	"github.com/chhotalabhavik/cleanout/pkg/rbac"
	"github.com/chhotalabhavik/cleanout/pkg/router"
	"github.com/chhotalabhavik/cleanout/pkg/ws"
)

// RegisterAPI mounts the whole API under /api plus the notification
// websocket under /ws.
func RegisterAPI(r *router.Router, hub *ws.Hub) {
	auth := controllers.NewAuthController()
	user := controllers.NewUserController()
	worker := controllers.NewWorkerController()
	shopkeeper := controllers.NewShopkeeperController()
	item := controllers.NewItemController()
	cart := controllers.NewCartController()
	order := controllers.NewOrderController()
	service := controllers.NewServiceController()
	serviceOrder := controllers.NewServiceOrderController()
	rating := controllers.NewRatingController()
	admin := controllers.NewAdminController()
	notification := controllers.NewNotificationController()

	api := r.Group("/api")

	providers := rbac.HasRole(models.RoleWorker, models.RoleShopkeeper)
	console := rbac.HasRole(models.RoleAdmin, models.RoleCoadmin)
	shopkeepers := rbac.HasRole(models.RoleShopkeeper)
	workers := rbac.HasRole(models.RoleWorker)

	// auth
	api.Post("/auth/login", "auth.login", ctx.Wrap(auth.Login), rbac.Guest)
	api.Post("/auth/logout", "auth.logout", ctx.Wrap(auth.Logout), middleware.Auth)
	api.Post("/jwt/refreshToken", "auth.refresh", ctx.Wrap(auth.Refresh))

	// password-reset OTP handshake
	api.Post("/otp/resetPassword", "otp.reset.send", ctx.Wrap(auth.SendResetOTP), rbac.Guest)
	api.Put("/otp/resetPassword", "otp.reset.verify", ctx.Wrap(auth.VerifyResetOTP), rbac.Guest)
	api.Post("/user/resetPassword", "user.resetPassword", ctx.Wrap(auth.ResetPassword), rbac.Guest)

	// service-order OTP gate
	api.Post("/otp/serviceOrder/{orderId}", "otp.order.send", ctx.Wrap(serviceOrder.SendOTP), middleware.Auth, workers)
	api.Put("/otp/serviceOrder/{orderId}", "otp.order.verify", ctx.Wrap(serviceOrder.VerifyOTP), middleware.Auth, workers)

	// user accounts
	api.Post("/user", "user.register", ctx.Wrap(user.Register), rbac.Guest)
	api.Get("/user/{userId}", "user.show", ctx.Wrap(user.Profile), middleware.Auth)
	api.Put("/user/{userId}", "user.update", ctx.Wrap(user.Update), middleware.Auth)
	api.Delete("/user/{userId}", "user.delete", ctx.Wrap(user.Delete), middleware.Auth)
	api.Get("/address/{userId}", "address.show", ctx.Wrap(user.Address), middleware.Auth)

	// worker accounts and shop affiliation
	api.Post("/worker", "worker.register", ctx.Wrap(worker.Register), rbac.Guest)
	api.Get("/worker/shopkeeperRequest", "worker.request.show", ctx.Wrap(worker.ShopRequest), middleware.Auth, workers)
	api.Post("/worker/shopkeeperResponse", "worker.request.respond", ctx.Wrap(worker.RespondToShopRequest), middleware.Auth, workers)
	api.Delete("/worker/leaveShop", "worker.leaveShop", ctx.Wrap(worker.LeaveShop), middleware.Auth, workers)
	api.Get("/worker/{userId}", "worker.show", ctx.Wrap(worker.Profile), middleware.Auth)
	api.Put("/worker/{userId}", "worker.update", ctx.Wrap(worker.Update), middleware.Auth)
	api.Delete("/worker/{userId}", "worker.delete", ctx.Wrap(worker.Delete), middleware.Auth)

	// shopkeeper accounts and their workers
	api.Post("/shopkeeper", "shopkeeper.register", ctx.Wrap(shopkeeper.Register), rbac.Guest)
	api.Get("/shopkeeper/workers", "shopkeeper.workers", ctx.Wrap(shopkeeper.Workers), middleware.Auth, shopkeepers)
	api.Post("/shopkeeper/addWorker", "shopkeeper.addWorker", ctx.Wrap(shopkeeper.AddWorker), middleware.Auth, shopkeepers)
	api.Delete("/shopkeeper/worker/{workerId}", "shopkeeper.removeWorker", ctx.Wrap(shopkeeper.RemoveWorker), middleware.Auth, shopkeepers)
	api.Get("/shopkeeper/{userId}", "shopkeeper.show", ctx.Wrap(shopkeeper.Profile), middleware.Auth)
	api.Put("/shopkeeper/{userId}", "shopkeeper.update", ctx.Wrap(shopkeeper.Update), middleware.Auth)
	api.Delete("/shopkeeper/{userId}", "shopkeeper.delete", ctx.Wrap(shopkeeper.Delete), middleware.Auth)

	// item catalogue and storefront
	api.Get("/item/random", "item.random", ctx.Wrap(item.Random))
	api.Get("/item/store", "item.store", ctx.Wrap(item.Store))
	api.Get("/item/owned", "item.owned", ctx.Wrap(item.Owned), middleware.Auth, shopkeepers)
	api.Post("/item", "item.add", ctx.Wrap(item.Add), middleware.Auth, shopkeepers)
	api.Post("/item/toCart/{itemId}", "item.toCart", ctx.Wrap(item.AddToCart), middleware.Auth)
	api.Get("/item/{itemId}", "item.show", ctx.Wrap(item.Get))
	api.Put("/item/{itemId}", "item.update", ctx.Wrap(item.Update), middleware.Auth, shopkeepers)
	api.Delete("/item/{itemId}", "item.delete", ctx.Wrap(item.Delete), middleware.Auth, shopkeepers)

	// cart
	api.Get("/cart", "cart.show", ctx.Wrap(cart.Get), middleware.Auth)
	api.Post("/cart/placeOrder", "cart.placeOrder", ctx.Wrap(cart.PlaceOrder), middleware.Auth)
	api.Put("/cart/{packId}", "cart.changeCount", ctx.Wrap(cart.ChangeCount), middleware.Auth)
	api.Delete("/cart", "cart.clear", ctx.Wrap(cart.Clear), middleware.Auth)

	// item orders
	api.Get("/itemOrder", "itemOrder.mine", ctx.Wrap(order.Mine), middleware.Auth)
	api.Get("/itemOrder/shop", "itemOrder.shop", ctx.Wrap(order.ForShop), middleware.Auth, shopkeepers)
	api.Get("/itemOrder/{orderId}", "itemOrder.show", ctx.Wrap(order.Get), middleware.Auth)
	api.Post("/itemOrder/{orderId}", "itemOrder.replace", ctx.Wrap(order.Replace), middleware.Auth)
	api.Put("/itemOrder/pack/{packId}", "itemOrder.changeStatus", ctx.Wrap(order.ChangeStatus), middleware.Auth, shopkeepers)
	api.Delete("/itemOrder/pack/{packId}", "itemOrder.cancelPack", ctx.Wrap(order.CancelPack), middleware.Auth)

	// services catalogue and storefront
	api.Get("/service/store", "service.store", ctx.Wrap(service.Store))
	api.Get("/service/workerService/{workerServiceId}", "service.workerService", ctx.Wrap(service.GetWorkerService))
	api.Get("/service/owned", "service.owned", ctx.Wrap(service.Owned), middleware.Auth, providers)
	api.Post("/service", "service.add", ctx.Wrap(service.Add), middleware.Auth, providers)
	api.Post("/service/bookService/{workerServiceId}", "service.book", ctx.Wrap(serviceOrder.Book), middleware.Auth)
	api.Get("/service/{serviceId}", "service.show", ctx.Wrap(service.Get))
	api.Put("/service/{serviceId}", "service.update", ctx.Wrap(service.Update), middleware.Auth, providers)
	api.Delete("/service/{serviceId}", "service.delete", ctx.Wrap(service.Delete), middleware.Auth, providers)

	// service orders
	api.Get("/serviceOrder", "serviceOrder.mine", ctx.Wrap(serviceOrder.Mine), middleware.Auth)
	api.Get("/serviceOrder/assigned", "serviceOrder.assigned", ctx.Wrap(serviceOrder.Assigned), middleware.Auth, workers)
	api.Get("/serviceOrder/{orderId}", "serviceOrder.show", ctx.Wrap(serviceOrder.Get), middleware.Auth)
	api.Post("/serviceOrder/{orderId}", "serviceOrder.replace", ctx.Wrap(serviceOrder.Replace), middleware.Auth)
	api.Put("/serviceOrder/{orderId}", "serviceOrder.done", ctx.Wrap(serviceOrder.Done), middleware.Auth, workers)
	api.Delete("/serviceOrder/{orderId}", "serviceOrder.cancel", ctx.Wrap(serviceOrder.Cancel), middleware.Auth)

	// service categories
	api.Get("/serviceCategory", "serviceCategory.index", ctx.Wrap(service.Categories))
	api.Post("/serviceCategory", "serviceCategory.add", ctx.Wrap(service.AddCategory), middleware.Auth, console)
	api.Put("/serviceCategory/{categoryId}", "serviceCategory.update", ctx.Wrap(service.UpdateCategory), middleware.Auth, console)
	api.Delete("/serviceCategory/{categoryId}", "serviceCategory.delete", ctx.Wrap(service.DeleteCategory), middleware.Auth, console)

	// ratings; kind is "item" or "service"
	api.Get("/rating/{kind}/{targetId}", "rating.list", ctx.Wrap(rating.List))
	api.Get("/rating/{kind}/{targetId}/mine", "rating.mine", ctx.Wrap(rating.Mine), middleware.Auth)
	api.Post("/rating/{kind}/{targetId}", "rating.add", ctx.Wrap(rating.Add), middleware.Auth)
	api.Put("/rating/{kind}/{targetId}", "rating.update", ctx.Wrap(rating.Update), middleware.Auth)
	api.Delete("/rating/{kind}/{targetId}", "rating.delete", ctx.Wrap(rating.Delete), middleware.Auth)

	// admin console
	api.Get("/admin", "admin.counts", ctx.Wrap(admin.InitialData), middleware.Auth, console)
	api.Get("/admin/users", "admin.users", ctx.Wrap(admin.GetUsers), middleware.Auth, console)
	api.Put("/admin/verify", "admin.verify", ctx.Wrap(admin.VerifyServiceProvider), middleware.Auth, console)
	api.Put("/admin/toggleCoadmin", "admin.toggleCoadmin", ctx.Wrap(admin.ToggleCoadmin), middleware.Auth, console)

	// notification inbox
	api.Get("/notification", "notification.inbox", ctx.Wrap(notification.Inbox), middleware.Auth)
	api.Put("/notification/seen", "notification.seen", ctx.Wrap(notification.MarkSeen), middleware.Auth)

	// live notification push
	r.Get("/ws/notifications", "ws.notifications", func(w http.ResponseWriter, req *http.Request) {
		userID, ok := middleware.UserIDFromCtx(req)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ws.Upgrade(w, req, hub, userID)
	}, middleware.Auth)
}
