package routes

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/neubistro/bistro/app/controllers"
	"github.com/neubistro/bistro/app/repositories"
	"github.com/neubistro/bistro/app/services"
	"github.com/neubistro/bistro/pkg/auth"
	"github.com/neubistro/bistro/pkg/ctx"
	"github.com/neubistro/bistro/pkg/middleware"
	"github.com/neubistro/bistro/pkg/router"
	"github.com/neubistro/bistro/pkg/session"
)

// Deps is what the API needs from the outside world.
type Deps struct {
	DB           *gorm.DB
	Signer       *auth.Signer
	Cookie       session.Options
	MenuCacheTTL time.Duration
}

// API returns a route-registration callback for the whole HTTP surface.
func API(d Deps) func(*router.Router) {
	users := repositories.NewUserRepository(d.DB)
	menu := repositories.NewMenuRepository(d.DB)
	orders := repositories.NewOrderRepository(d.DB)

	authController := controllers.NewAuthController(services.NewAuthService(users), d.Signer, d.Cookie)
	menuController := controllers.NewMenuController(services.NewMenuService(menu, d.MenuCacheTTL))
	orderController := controllers.NewOrderController(services.NewOrderService(orders, menu))

	return func(r *router.Router) {
		r.Get("/ping", "ping", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte("pong"))
		})

		api := r.Group("/api")

		authGroup := api.Group("/auth")
		authGroup.Post("/register", "auth.register", ctx.Wrap(authController.Register))
		authGroup.Post("/login", "auth.login", ctx.Wrap(authController.Login))
		authGroup.Post("/logout", "auth.logout", ctx.Wrap(authController.Logout))
		authGroup.Get("/me", "auth.me", ctx.Wrap(authController.Me))

		api.Get("/menu", "menu.index", ctx.Wrap(menuController.Index))

		protected := api.Group("", middleware.RequireAuth)
		protected.Post("/menu", "menu.store", ctx.Wrap(menuController.Store))
		protected.Delete("/menu/{id}", "menu.destroy", ctx.Wrap(menuController.Destroy))

		protected.Get("/cart", "cart.show", ctx.Wrap(orderController.Cart))
		protected.Post("/cart/items", "cart.items.store", ctx.Wrap(orderController.AddItem))
		protected.Delete("/cart/items/{id}", "cart.items.destroy", ctx.Wrap(orderController.RemoveItem))

		protected.Post("/orders/checkout", "orders.checkout", ctx.Wrap(orderController.Checkout))
		protected.Get("/orders", "orders.index", ctx.Wrap(orderController.Index))
	}
}
