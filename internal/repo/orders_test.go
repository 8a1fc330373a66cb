package repo

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vkosarev/food_delivery/internal/cart"
	"github.com/vkosarev/food_delivery/internal/models"
	"github.com/vkosarev/food_delivery/internal/order"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Restaurant{},
		&models.MenuItem{},
		&models.OrderRecord{},
		&models.OrderLineRecord{},
	))
	return db
}

func sampleOrder() order.Order {
	return order.Order{
		ID:             uuid.New(),
		RestaurantName: "Cyber Sushi Lab",
		Items: []cart.Line{
			{ItemID: 1, Name: "California Roll", UnitPrice: 12.99, Quantity: 2},
			{ItemID: 2, Name: "Salmon Nigiri", UnitPrice: 8.99, Quantity: 4},
		},
		Total:           61.94,
		Status:          order.StatusPending,
		CreatedAt:       time.Now().UTC().Truncate(time.Second),
		DeliveryAddress: "12 rue Néon",
	}
}

func TestArchiveSaveAndLoad(t *testing.T) {
	db := initTestDB(t)
	a := &OrderArchive{DB: db}
	ctx := context.Background()

	o := sampleOrder()
	require.NoError(t, a.Save(ctx, "user-1", o))

	book, err := a.LoadBook(ctx, "user-1")
	require.NoError(t, err)

	got, err := book.Get(o.ID)
	require.NoError(t, err)
	require.Equal(t, o.RestaurantName, got.RestaurantName)
	require.Equal(t, order.StatusPending, got.Status)
	require.Len(t, got.Items, 2)
	require.InDelta(t, 61.94, got.Total, 1e-9)
}

func TestLoadBookRecomputesTotal(t *testing.T) {
	db := initTestDB(t)
	a := &OrderArchive{DB: db}
	ctx := context.Background()

	o := sampleOrder()
	require.NoError(t, a.Save(ctx, "user-1", o))

	// a tampered stored total must not survive the load
	require.NoError(t, db.Model(&models.OrderRecord{}).
		Where("id = ?", o.ID.String()).
		Update("total", 999.99).Error)

	book, err := a.LoadBook(ctx, "user-1")
	require.NoError(t, err)

	got, err := book.Get(o.ID)
	require.NoError(t, err)
	require.InDelta(t, 61.94, got.Total, 1e-9)
}

func TestLoadBookDerivesPartitionFromStatus(t *testing.T) {
	db := initTestDB(t)
	a := &OrderArchive{DB: db}
	ctx := context.Background()

	active := sampleOrder()
	require.NoError(t, a.Save(ctx, "user-1", active))

	done := sampleOrder()
	done.Status = order.StatusDelivered
	require.NoError(t, a.Save(ctx, "user-1", done))

	book, err := a.LoadBook(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, book.Active(), 1)
	require.Len(t, book.History(), 1)
}

func TestLoadBookScopedToUser(t *testing.T) {
	db := initTestDB(t)
	a := &OrderArchive{DB: db}
	ctx := context.Background()

	require.NoError(t, a.Save(ctx, "user-1", sampleOrder()))
	require.NoError(t, a.Save(ctx, "user-2", sampleOrder()))

	book, err := a.LoadBook(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, book.All(), 1)
}

func TestUpdateStatus(t *testing.T) {
	db := initTestDB(t)
	a := &OrderArchive{DB: db}
	ctx := context.Background()

	o := sampleOrder()
	require.NoError(t, a.Save(ctx, "user-1", o))

	o.Status = order.StatusDelivering
	o.DriverID = "drv-7"
	o.DriverName = "Yuri"
	o.EstimatedDeliveryTime = "25 min"
	require.NoError(t, a.UpdateStatus(ctx, o))

	var rec models.OrderRecord
	require.NoError(t, db.First(&rec, "id = ?", o.ID.String()).Error)
	require.Equal(t, "delivering", rec.Status)
	require.Equal(t, "Yuri", rec.DriverName)
}

func TestLoadBookRejectsUnknownStatus(t *testing.T) {
	db := initTestDB(t)
	a := &OrderArchive{DB: db}
	ctx := context.Background()

	o := sampleOrder()
	require.NoError(t, a.Save(ctx, "user-1", o))
	require.NoError(t, db.Model(&models.OrderRecord{}).
		Where("id = ?", o.ID.String()).
		Update("status", "teleported").Error)

	_, err := a.LoadBook(ctx, "user-1")
	require.Error(t, err)
}
