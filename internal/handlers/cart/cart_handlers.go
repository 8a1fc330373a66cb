package cart

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	cartledger "github.com/vkosarev/food_delivery/internal/cart"
	"github.com/vkosarev/food_delivery/internal/logging"
	"github.com/vkosarev/food_delivery/internal/mykafka"
	"github.com/vkosarev/food_delivery/internal/order"
	"github.com/vkosarev/food_delivery/internal/repo"
	"github.com/vkosarev/food_delivery/internal/session"
)

type CartHandler struct {
	Store     *session.Store
	Archive   *repo.OrderArchive
	Producer  *mykafka.Producer
	JWTSecret []byte
}

func (h *CartHandler) publish(c echo.Context, event map[string]any) {
	publish(c, h.Producer, "cart_events", event)
}

func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	ledger := h.Store.Session(userID).Cart
	snap := ledger.Snapshot()
	return c.JSON(http.StatusOK, snap)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	var req cartledger.Candidate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	ledger := h.Store.Session(userID).Cart
	line, err := ledger.AddItem(req)
	if err != nil {
		if errors.Is(err, cartledger.ErrInvalidItem) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":     "cart_item_added",
		"userID":   userID,
		"itemID":   line.ItemID,
		"quantity": line.Quantity,
	})
	return c.JSON(http.StatusOK, line)
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	ledger := h.Store.Session(userID).Cart
	ledger.UpdateQuantity(uint(id), req.Quantity)

	h.publish(c, map[string]any{
		"type":         "cart_quantity_updated",
		"userID":       userID,
		"itemID":       id,
		"new_quantity": req.Quantity,
	})
	return c.JSON(http.StatusOK, ledger.Snapshot())
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	ledger := h.Store.Session(userID).Cart
	ledger.RemoveItem(uint(id))

	h.publish(c, map[string]any{
		"type":         "cart_item_removed",
		"userID":       userID,
		"deleted_item": id,
	})
	return c.JSON(http.StatusOK, ledger.Snapshot())
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	ledger := h.Store.Session(userID).Cart
	ledger.Clear()

	h.publish(c, map[string]any{
		"type":   "cart_cleared",
		"userID": userID,
	})
	return c.JSON(http.StatusOK, ledger.Snapshot())
}

// MakeOrder freezes the cart into a new pending order and then clears
// the cart. The two steps are sequenced here, not inside the ledger;
// the snapshot is a deep copy, so a mutation racing between them cannot
// corrupt the order already taken.
func (h *CartHandler) MakeOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.make_order")

	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	var req struct {
		RestaurantName  string `json:"restaurant_name"`
		DeliveryAddress string `json:"delivery_address"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	sess := h.Store.Session(userID)
	o, err := sess.Orders.Submit(sess.Cart.Snapshot(), req.RestaurantName, req.DeliveryAddress)
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			l.Warn("make_order_error", "status", 400, "reason", "empty cart")
			return echo.NewHTTPError(http.StatusBadRequest, "no items in cart")
		}
		l.Warn("make_order_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	sess.Cart.Clear()

	if h.Archive != nil {
		if err := h.Archive.Save(ctx, userID, o); err != nil {
			l.Warn("make_order_archive_failed", "order_id", o.ID, "error", err)
		}
	}

	h.publish(c, map[string]any{
		"type":    "order_created",
		"userID":  userID,
		"orderID": o.ID,
		"total":   o.Total,
	})

	l.Info("make_order_success", "order_id", o.ID)
	return c.JSON(http.StatusCreated, o)
}
