package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vkosarev/food_delivery/internal/handlers"
	"github.com/vkosarev/food_delivery/internal/handlers/cart"
)

type Deps struct {
	CartHandler       *cart.CartHandler
	OrdersHandler     *handlers.OrdersHandler
	RestaurantHandler *handlers.RestaurantHandler
	SearchHandler     *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.GET("/search", d.SearchHandler.Search)

	restaurants := v1.Group("/restaurants")
	restaurants.GET("", d.RestaurantHandler.GetRestaurants)
	restaurants.GET("/:id", d.RestaurantHandler.GetRestaurant)

	cartGroup := v1.Group("/cart")
	cartGroup.GET("", d.CartHandler.GetCart)
	cartGroup.POST("", d.CartHandler.AddToCart)
	cartGroup.PATCH("/:id", d.CartHandler.UpdateQuantity)
	cartGroup.DELETE("/:id", d.CartHandler.RemoveFromCart)
	cartGroup.DELETE("", d.CartHandler.ClearCart)
	cartGroup.POST("/order", d.CartHandler.MakeOrder)

	orders := v1.Group("/orders")
	orders.GET("", d.OrdersHandler.GetOrders)
	orders.GET("/:id", d.OrdersHandler.GetOrder)
}
