package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vkosarev/food_delivery/internal/models"
)

var ErrNotFound = errors.New("not found")

// Catalog reads the restaurant and menu tables. The menu is the source
// of item candidates the cart accepts; the cart itself never touches
// the database.
type Catalog struct {
	DB *gorm.DB
}

func (r *Catalog) ListRestaurants(ctx context.Context, offset, limit int) (int64, []models.Restaurant, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Restaurant{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Restaurant
	if err := r.DB.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *Catalog) GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.DB.WithContext(ctx).Preload("Menu").First(&restaurant, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("restaurant %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *Catalog) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.DB.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("menu item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}
