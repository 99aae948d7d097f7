package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/ferremix/storefront/internal/handlers"
	"github.com/ferremix/storefront/internal/handlers/admin"
	"github.com/ferremix/storefront/internal/handlers/cart"
	authmw "github.com/ferremix/storefront/internal/middleware/auth"
)

type Deps struct {
	Auth     *authmw.Middleware
	AuthH    *handlers.AuthHandler
	Catalog  *handlers.CatalogHandler
	Cart     *cart.CartHandler
	Orders   *handlers.OrderHandler
	Search   *handlers.SearchHandler
	Admin    *admin.Handler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.GET("/", d.Catalog.Home)
	e.GET("/offers", d.Catalog.Offers)
	e.GET("/product/:id", d.Catalog.ProductDetail)
	e.GET("/search", d.Search.Search)

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthH.Register)
	auth.POST("/login", d.AuthH.Login)
	auth.POST("/logout", d.AuthH.Logout)

	cartGroup := e.Group("/cart", d.Auth.RequireLogin)
	cartGroup.GET("", d.Cart.View)
	cartGroup.GET("/summary", d.Cart.Summary)
	cartGroup.POST("/add/:product_id", d.Cart.Add)
	cartGroup.POST("/update/:item_id", d.Cart.Update)
	cartGroup.POST("/remove/:item_id", d.Cart.Remove)
	cartGroup.GET("/checkout", d.Cart.CheckoutForm)
	cartGroup.POST("/checkout", d.Cart.CheckoutSubmit)

	orders := e.Group("/orders", d.Auth.RequireLogin)
	orders.GET("", d.Orders.List)
	orders.GET("/:id", d.Orders.Detail)

	adminGroup := e.Group("/admin", d.Auth.AdminOnly)
	adminGroup.GET("", d.Admin.Dashboard)

	adminGroup.GET("/products", d.Admin.ListProducts)
	adminGroup.GET("/products/:id", d.Admin.GetProduct)
	adminGroup.POST("/products", d.Admin.CreateProduct)
	adminGroup.PATCH("/products/:id", d.Admin.UpdateProduct)
	adminGroup.DELETE("/products/:id", d.Admin.DeleteProduct)

	adminGroup.GET("/categories", d.Admin.ListCategories)
	adminGroup.GET("/categories/:id", d.Admin.GetCategory)
	adminGroup.POST("/categories", d.Admin.CreateCategory)
	adminGroup.PATCH("/categories/:id", d.Admin.UpdateCategory)
	adminGroup.DELETE("/categories/:id", d.Admin.DeleteCategory)

	adminGroup.GET("/users", d.Admin.ListUsers)
	adminGroup.GET("/users/:id", d.Admin.GetUser)
	adminGroup.POST("/users", d.Admin.CreateUser)
	adminGroup.PATCH("/users/:id", d.Admin.UpdateUser)
	adminGroup.DELETE("/users/:id", d.Admin.DeleteUser)

	adminGroup.GET("/orders", d.Admin.ListOrders)
	adminGroup.GET("/orders/:id", d.Admin.GetOrder)
	adminGroup.POST("/orders/:id/status", d.Admin.UpdateOrderStatus)
}
