package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vkosarev/food_delivery/internal/cart"
)

func testSnapshot(t *testing.T) cart.Snapshot {
	t.Helper()
	l := cart.NewLedger()
	for i := 0; i < 2; i++ {
		_, err := l.AddItem(cart.Candidate{ItemID: 1, Name: "California Roll", UnitPrice: 12.99})
		require.NoError(t, err)
	}
	for i := 0; i < 4; i++ {
		_, err := l.AddItem(cart.Candidate{ItemID: 2, Name: "Salmon Nigiri", UnitPrice: 8.49})
		require.NoError(t, err)
	}
	return l.Snapshot()
}

func TestStatusCanTransition(t *testing.T) {
	require.True(t, StatusPending.CanTransition(StatusPreparing))
	require.True(t, StatusPreparing.CanTransition(StatusDelivering))
	require.True(t, StatusDelivering.CanTransition(StatusDelivered))

	// skips, repeats and backward moves
	require.False(t, StatusPending.CanTransition(StatusDelivered))
	require.False(t, StatusPending.CanTransition(StatusPending))
	require.False(t, StatusPreparing.CanTransition(StatusPending))
	require.False(t, StatusDelivered.CanTransition(StatusDelivered))
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("delivering")
	require.True(t, ok)
	require.Equal(t, StatusDelivering, s)

	_, ok = ParseStatus("cancelled")
	require.False(t, ok)
}

func TestSubmitCreatesPendingOrder(t *testing.T) {
	b := NewBook()

	o, err := b.Submit(testSnapshot(t), "Cyber Sushi Lab", "12 rue Néon")
	require.NoError(t, err)

	require.Equal(t, StatusPending, o.Status)
	require.Equal(t, "Cyber Sushi Lab", o.RestaurantName)
	require.Equal(t, "12 rue Néon", o.DeliveryAddress)
	require.Len(t, o.Items, 2)
	require.InDelta(t, 59.94, o.Total, 1e-9)
	require.False(t, o.CreatedAt.IsZero())
}

func TestSubmitEmptyCart(t *testing.T) {
	b := NewBook()

	_, err := b.Submit(cart.Snapshot{}, "Cyber Sushi Lab", "")
	require.ErrorIs(t, err, ErrEmptyCart)
	require.Len(t, b.All(), 0)
}

func TestSubmitSnapshotIsolation(t *testing.T) {
	b := NewBook()
	l := cart.NewLedger()
	_, err := l.AddItem(cart.Candidate{ItemID: 1, Name: "Cyber Burger", UnitPrice: 15.99})
	require.NoError(t, err)

	o, err := b.Submit(l.Snapshot(), "Neon Burger", "")
	require.NoError(t, err)
	l.Clear()

	// mutating the cart after submission must not reach the order
	_, err = l.AddItem(cart.Candidate{ItemID: 2, Name: "Frites Quantiques", UnitPrice: 5.99})
	require.NoError(t, err)
	l.UpdateQuantity(2, 9)

	got, err := b.Get(o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.Equal(t, "Cyber Burger", got.Items[0].Name)
	require.InDelta(t, 15.99, got.Total, 1e-9)
}

func TestApplyStatusTransitionForwardOnly(t *testing.T) {
	b := NewBook()
	o, err := b.Submit(testSnapshot(t), "Cyber Sushi Lab", "")
	require.NoError(t, err)

	// jumping straight to delivered must fail and change nothing
	_, err = b.ApplyStatusTransition(Transition{OrderID: o.ID, To: StatusDelivered})
	require.ErrorIs(t, err, ErrInvalidTransition)
	got, err := b.Get(o.ID)
	require.NoError(t, err)
	require.Equal(t, StatusPending, got.Status)

	for _, next := range []Status{StatusPreparing, StatusDelivering, StatusDelivered} {
		got, err = b.ApplyStatusTransition(Transition{OrderID: o.ID, To: next})
		require.NoError(t, err)
		require.Equal(t, next, got.Status)
	}

	// a duplicate of the last event must be rejected, not reapplied
	_, err = b.ApplyStatusTransition(Transition{OrderID: o.ID, To: StatusDelivered})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApplyStatusTransitionUnknownOrder(t *testing.T) {
	b := NewBook()
	_, err := b.ApplyStatusTransition(Transition{OrderID: uuid.New(), To: StatusPreparing})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestApplyStatusTransitionCourierFields(t *testing.T) {
	b := NewBook()
	o, err := b.Submit(testSnapshot(t), "Cyber Sushi Lab", "")
	require.NoError(t, err)

	_, err = b.ApplyStatusTransition(Transition{OrderID: o.ID, To: StatusPreparing})
	require.NoError(t, err)

	got, err := b.ApplyStatusTransition(Transition{
		OrderID:               o.ID,
		To:                    StatusDelivering,
		DriverID:              "drv-7",
		DriverName:            "Yuri",
		EstimatedDeliveryTime: "25 min",
	})
	require.NoError(t, err)
	require.Equal(t, "drv-7", got.DriverID)
	require.Equal(t, "Yuri", got.DriverName)
	require.Equal(t, "25 min", got.EstimatedDeliveryTime)
}

func TestActiveHistoryPartition(t *testing.T) {
	b := NewBook()
	o, err := b.Submit(testSnapshot(t), "Cyber Sushi Lab", "")
	require.NoError(t, err)

	for _, next := range []Status{StatusPreparing, StatusDelivering} {
		require.Len(t, b.Active(), 1)
		require.Len(t, b.History(), 0)
		_, err = b.ApplyStatusTransition(Transition{OrderID: o.ID, To: next})
		require.NoError(t, err)
	}

	require.Len(t, b.Active(), 1)
	_, err = b.ApplyStatusTransition(Transition{OrderID: o.ID, To: StatusDelivered})
	require.NoError(t, err)

	require.Len(t, b.Active(), 0)
	require.Len(t, b.History(), 1)
	require.Len(t, b.All(), 1)
}

func TestReturnedOrdersAreCopies(t *testing.T) {
	b := NewBook()
	o, err := b.Submit(testSnapshot(t), "Cyber Sushi Lab", "")
	require.NoError(t, err)

	o.Items[0].Quantity = 99
	o.Total = 0

	got, err := b.Get(o.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.Items[0].Quantity)
	require.InDelta(t, 59.94, got.Total, 1e-9)
}

func TestRestore(t *testing.T) {
	b := NewBook()
	o := Order{
		ID:             uuid.New(),
		RestaurantName: "Neon Burger",
		Items:          []cart.Line{{ItemID: 1, Name: "Cyber Burger", UnitPrice: 15.99, Quantity: 1}},
		Total:          15.99,
		Status:         StatusDelivered,
	}
	b.Restore(o)

	require.Len(t, b.History(), 1)
	got, err := b.Get(o.ID)
	require.NoError(t, err)
	require.Equal(t, StatusDelivered, got.Status)
}
