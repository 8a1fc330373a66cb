package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vkosarev/food_delivery/internal/cart"
	"github.com/vkosarev/food_delivery/internal/models"
	"github.com/vkosarev/food_delivery/internal/order"
)

// OrderArchive persists submitted orders in their plain structural form
// so history survives a restart. The stored total is never trusted on
// load: LoadBook recomputes it from the lines, and the active/history
// split is re-derived from status.
type OrderArchive struct {
	DB *gorm.DB
}

func (a *OrderArchive) Save(ctx context.Context, userID string, o order.Order) error {
	record := models.OrderRecord{
		ID:                    o.ID.String(),
		UserID:                userID,
		RestaurantName:        o.RestaurantName,
		Total:                 o.Total,
		Status:                o.Status.String(),
		CreatedAt:             o.CreatedAt.Unix(),
		DeliveryAddress:       o.DeliveryAddress,
		EstimatedDeliveryTime: o.EstimatedDeliveryTime,
		DriverID:              o.DriverID,
		DriverName:            o.DriverName,
	}
	for _, line := range o.Items {
		record.Lines = append(record.Lines, models.OrderLineRecord{
			OrderID:   record.ID,
			ItemID:    line.ItemID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}

	return a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&record).Error
	})
}

func (a *OrderArchive) UpdateStatus(ctx context.Context, o order.Order) error {
	updates := map[string]any{
		"status":                  o.Status.String(),
		"driver_id":               o.DriverID,
		"driver_name":             o.DriverName,
		"estimated_delivery_time": o.EstimatedDeliveryTime,
	}
	return a.DB.WithContext(ctx).
		Model(&models.OrderRecord{}).
		Where("id = ?", o.ID.String()).
		Updates(updates).Error
}

// LoadBook rebuilds a user's order book from the archive. Totals come
// from summing the stored lines, not from the persisted total column.
func (a *OrderArchive) LoadBook(ctx context.Context, userID string) (*order.Book, error) {
	var records []models.OrderRecord
	if err := a.DB.WithContext(ctx).
		Preload("Lines").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}

	book := order.NewBook()
	for _, rec := range records {
		o, err := recordToOrder(rec)
		if err != nil {
			return nil, err
		}
		book.Restore(o)
	}
	return book, nil
}

func recordToOrder(rec models.OrderRecord) (order.Order, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return order.Order{}, fmt.Errorf("order %s: bad id: %w", rec.ID, err)
	}
	status, ok := order.ParseStatus(rec.Status)
	if !ok {
		return order.Order{}, fmt.Errorf("order %s: unknown status %q", rec.ID, rec.Status)
	}

	var (
		items []cart.Line
		total float64
	)
	for _, line := range rec.Lines {
		items = append(items, cart.Line{
			ItemID:    line.ItemID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
		total += line.UnitPrice * float64(line.Quantity)
	}

	return order.Order{
		ID:                    id,
		RestaurantName:        rec.RestaurantName,
		Items:                 items,
		Total:                 total,
		Status:                status,
		CreatedAt:             time.Unix(rec.CreatedAt, 0).UTC(),
		DeliveryAddress:       rec.DeliveryAddress,
		EstimatedDeliveryTime: rec.EstimatedDeliveryTime,
		DriverID:              rec.DriverID,
		DriverName:            rec.DriverName,
	}, nil
}
