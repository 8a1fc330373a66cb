package order

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vkosarev/food_delivery/internal/cart"
)

var (
	ErrEmptyCart         = errors.New("empty cart")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
)

// Order is an immutable snapshot of a submitted cart plus fulfillment
// metadata. After submission only the status and the courier fields
// change, and only through Book.ApplyStatusTransition.
type Order struct {
	ID                    uuid.UUID   `json:"id"`
	RestaurantName        string      `json:"restaurant_name"`
	Items                 []cart.Line `json:"items"`
	Total                 float64     `json:"total"`
	Status                Status      `json:"status"`
	CreatedAt             time.Time   `json:"created_at"`
	DeliveryAddress       string      `json:"delivery_address,omitempty"`
	EstimatedDeliveryTime string      `json:"estimated_delivery_time,omitempty"`
	DriverID              string      `json:"driver_id,omitempty"`
	DriverName            string      `json:"driver_name,omitempty"`
}

func (o *Order) clone() Order {
	out := *o
	out.Items = make([]cart.Line, len(o.Items))
	copy(out.Items, o.Items)
	return out
}

// Transition is one event from the delivery tracking feed. Courier
// fields are optional and usually arrive with the delivering step.
type Transition struct {
	OrderID               uuid.UUID
	To                    Status
	DriverID              string
	DriverName            string
	EstimatedDeliveryTime string
}

// Book holds every order of one user session and classifies them as
// active or history on each query. Orders are never deleted.
type Book struct {
	mu     sync.Mutex
	orders []*Order
	byID   map[uuid.UUID]*Order
}

func NewBook() *Book {
	return &Book{byID: make(map[uuid.UUID]*Order)}
}

// Submit freezes a cart snapshot into a new pending order. The snapshot
// is already a deep copy, so later cart mutations cannot reach the
// order's items. Clearing the source cart is the caller's step.
func (b *Book) Submit(snap cart.Snapshot, restaurantName, deliveryAddress string) (Order, error) {
	if len(snap.Lines) == 0 {
		return Order{}, ErrEmptyCart
	}

	o := &Order{
		ID:              uuid.New(),
		RestaurantName:  restaurantName,
		Items:           snap.Lines,
		Total:           snap.Total,
		Status:          StatusPending,
		CreatedAt:       time.Now().UTC(),
		DeliveryAddress: deliveryAddress,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders = append(b.orders, o)
	b.byID[o.ID] = o
	return o.clone(), nil
}

// ApplyStatusTransition is the only mutation entry point for submitted
// orders. Anything but the immediate next status is rejected and the
// order is left untouched, so duplicate or out-of-order feed events
// cannot be reapplied.
func (b *Book) ApplyStatusTransition(t Transition) (Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.byID[t.OrderID]
	if !ok {
		return Order{}, fmt.Errorf("order %s: %w", t.OrderID, ErrNotFound)
	}
	if !o.Status.CanTransition(t.To) {
		return Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, t.To)
	}

	o.Status = t.To
	if t.DriverID != "" {
		o.DriverID = t.DriverID
	}
	if t.DriverName != "" {
		o.DriverName = t.DriverName
	}
	if t.EstimatedDeliveryTime != "" {
		o.EstimatedDeliveryTime = t.EstimatedDeliveryTime
	}
	return o.clone(), nil
}

func (b *Book) Get(id uuid.UUID) (Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.byID[id]
	if !ok {
		return Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return o.clone(), nil
}

// Active returns the orders still in progress. The partition is derived
// from status on every call, never cached.
func (b *Book) Active() []Order {
	return b.filter(func(o *Order) bool { return o.Status.Active() })
}

// History returns the delivered orders.
func (b *Book) History() []Order {
	return b.filter(func(o *Order) bool { return !o.Status.Active() })
}

func (b *Book) All() []Order {
	return b.filter(func(o *Order) bool { return true })
}

func (b *Book) filter(keep func(*Order) bool) []Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Order, 0, len(b.orders))
	for _, o := range b.orders {
		if keep(o) {
			out = append(out, o.clone())
		}
	}
	return out
}

// Restore inserts an order rehydrated from the archive. Used only when
// rebuilding a book on session load.
func (b *Book) Restore(o Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := o.clone()
	b.orders = append(b.orders, &cp)
	b.byID[cp.ID] = &cp
}
