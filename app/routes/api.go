package routes

import (
	"net/http"

	"github.com/workhive/workhive/app/controllers"
	"github.com/workhive/workhive/app/models"
	"github.com/workhive/workhive/pkg/middleware"
	"github.com/workhive/workhive/pkg/router"
)

// Controllers bundles everything RegisterAPI mounts.
type Controllers struct {
	Auth          *controllers.AuthController
	Projects      *controllers.ProjectController
	Orders        *controllers.OrderController
	Payments      *controllers.PaymentController
	Contact       *controllers.ContactController
	Notifications *controllers.NotificationController
	AdminConfig   *controllers.AdminConfigController
	Chat          *controllers.ChatController
	Posts         *controllers.PostController
	AdminGraphQL  http.HandlerFunc
}

// RegisterAPI mounts all API routes. Public routes first, then the
// authenticated group, then the admin group behind the role guard.
func RegisterAPI(r *router.Router, c Controllers) {
	api := r.Group("/api")

	// Public
	api.Post("/auth/register", "auth.register", c.Auth.Register)
	api.Post("/auth/login", "auth.login", c.Auth.Login)
	api.Post("/contact", "contact.submit", c.Contact.Submit)
	api.Get("/projects", "projects.list", c.Projects.List)
	api.Get("/projects/{id}", "projects.show", c.Projects.Get)
	api.Get("/posts", "posts.feed", c.Posts.Feed)

	// Authenticated
	user := api.Group("", middleware.Auth)
	user.Get("/auth/profile", "auth.profile", c.Auth.Profile)

	user.Post("/orders", "orders.create", c.Orders.Create)
	user.Get("/orders", "orders.history", c.Orders.History)
	user.Post("/prebookings", "prebookings.create", c.Orders.CreatePrebooking)

	user.Post("/payment/razorpay/create-order", "payments.create_order", c.Payments.CreateOrder)
	user.Post("/payment/razorpay/verify", "payments.verify", c.Payments.Verify)

	user.Get("/notifications", "notifications.list", c.Notifications.List)
	user.Patch("/notifications/{id}/read", "notifications.read", c.Notifications.MarkRead)

	user.Post("/conversations", "chat.open", c.Chat.Open)
	user.Get("/conversations", "chat.list", c.Chat.List)
	user.Get("/conversations/{id}/messages", "chat.messages", c.Chat.Messages)
	user.Post("/conversations/{id}/messages", "chat.send", c.Chat.Send)
	user.Get("/conversations/{id}/socket", "chat.socket", c.Chat.Socket)
	user.Get("/coins/balance", "chat.balance", c.Chat.Balance)

	user.Post("/posts", "posts.create", c.Posts.Create)
	user.Put("/posts/{id}", "posts.update", c.Posts.Update)
	user.Delete("/posts/{id}", "posts.delete", c.Posts.Delete)
	user.Post("/posts/{id}/like", "posts.like", c.Posts.Like)

	// Admin
	admin := api.Group("", middleware.Auth, middleware.RequireRole(models.RoleAdmin))
	admin.Post("/projects", "projects.create", c.Projects.Create)
	admin.Put("/projects/{id}", "projects.update", c.Projects.Update)
	admin.Delete("/projects/{id}", "projects.delete", c.Projects.Delete)
	admin.Post("/projects/{id}/attachment", "projects.attach", c.Projects.Attach)

	admin.Get("/admin/orders", "admin.orders", c.Orders.AdminHistory)
	admin.Patch("/orders/{id}", "orders.transition", c.Orders.Transition)
	admin.Patch("/prebookings/{id}", "prebookings.transition", c.Orders.TransitionPrebooking)
	admin.Post("/payment/razorpay/refund/{id}", "payments.refund", c.Payments.Refund)

	admin.Get("/contact", "contact.list", c.Contact.List)
	admin.Patch("/contact/{id}/status", "contact.status", c.Contact.UpdateStatus)

	admin.Post("/admin/razorpay-config", "admin.gateway.save", c.AdminConfig.Save)
	admin.Get("/admin/razorpay-config", "admin.gateway.show", c.AdminConfig.Show)
	admin.Put("/admin/razorpay-config", "admin.gateway.update", c.AdminConfig.Save)
	admin.Post("/admin/razorpay-config/test", "admin.gateway.test", c.AdminConfig.Test)

	if c.AdminGraphQL != nil {
		admin.Post("/admin/graphql", "admin.graphql", c.AdminGraphQL)
	}
}
