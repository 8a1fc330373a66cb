package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	cartauth "github.com/vkosarev/food_delivery/internal/handlers/cart"
	"github.com/vkosarev/food_delivery/internal/order"
	"github.com/vkosarev/food_delivery/internal/session"
)

type OrdersHandler struct {
	Store     *session.Store
	JWTSecret []byte
}

// GetOrders lists a user's orders. The active/history split is derived
// from order status on every request, matching the tabs the client
// renders.
func (h *OrdersHandler) GetOrders(c echo.Context) error {
	userID, err := cartauth.GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	book := h.Store.Session(userID).Orders

	var orders []order.Order
	switch c.QueryParam("tab") {
	case "active":
		orders = book.Active()
	case "history":
		orders = book.History()
	case "":
		orders = book.All()
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown tab")
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrdersHandler) GetOrder(c echo.Context) error {
	userID, err := cartauth.GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := h.Store.Session(userID).Orders.Get(id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, o)
}
