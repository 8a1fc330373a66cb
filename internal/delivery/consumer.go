package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/vkosarev/food_delivery/internal/logging"
	"github.com/vkosarev/food_delivery/internal/order"
	"github.com/vkosarev/food_delivery/internal/repo"
	"github.com/vkosarev/food_delivery/internal/session"
)

// StatusEvent is one message on the delivery tracking topic. Courier
// fields are optional; trackers usually attach them when the order
// goes out for delivery.
type StatusEvent struct {
	OrderID               string `json:"order_id"`
	Status                string `json:"status"`
	DriverID              string `json:"driver_id,omitempty"`
	DriverName            string `json:"driver_name,omitempty"`
	EstimatedDeliveryTime string `json:"estimated_delivery_time,omitempty"`
}

// Consumer reads the delivery tracking feed and applies each event to
// the order it names. It is the only writer of order status after
// submission; anything the state machine rejects is logged and dropped.
type Consumer struct {
	reader  *kafka.Reader
	store   *session.Store
	archive *repo.OrderArchive
}

func NewConsumer(brokers []string, topic, groupID string, store *session.Store, archive *repo.OrderArchive) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: r, store: store, archive: archive}
}

// Run blocks until ctx is cancelled, applying feed events in arrival
// order. A rejected event never stops the loop.
func (c *Consumer) Run(ctx context.Context) error {
	l := logging.FromContext(ctx).With("component", "delivery.consumer")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("delivery: read failed: %w", err)
		}

		if err := c.Handle(ctx, msg.Value); err != nil {
			l.Warn("delivery_event_rejected", "error", err, "offset", msg.Offset)
		}
	}
}

// Handle decodes one feed event and routes it through the order state
// machine. Duplicate or out-of-order events come back as
// order.ErrInvalidTransition and leave the order untouched.
func (c *Consumer) Handle(ctx context.Context, raw []byte) error {
	var ev StatusEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return fmt.Errorf("delivery: bad event payload: %w", err)
	}

	orderID, err := uuid.Parse(ev.OrderID)
	if err != nil {
		return fmt.Errorf("delivery: bad order id %q: %w", ev.OrderID, err)
	}
	status, ok := order.ParseStatus(ev.Status)
	if !ok {
		return fmt.Errorf("delivery: unknown status %q", ev.Status)
	}

	o, err := c.store.ApplyStatusTransition(order.Transition{
		OrderID:               orderID,
		To:                    status,
		DriverID:              ev.DriverID,
		DriverName:            ev.DriverName,
		EstimatedDeliveryTime: ev.EstimatedDeliveryTime,
	})
	if err != nil {
		return err
	}

	if c.archive != nil {
		if err := c.archive.UpdateStatus(ctx, o); err != nil {
			logging.FromContext(ctx).Warn("delivery_archive_update_failed", "order_id", o.ID, "error", err)
		}
	}
	return nil
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
