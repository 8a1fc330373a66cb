package models

type Restaurant struct {
	ID           uint       `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name         string     `gorm:"not null"                  json:"name"`
	Image        string     `json:"image"`
	Rating       float64    `json:"rating"`
	DeliveryTime string     `json:"delivery_time"`
	Category     string     `gorm:"index"                     json:"category"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	Menu         []MenuItem `gorm:"foreignKey:RestaurantID"   json:"menu,omitempty"`
}

type MenuItem struct {
	ID           uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	RestaurantID uint    `gorm:"index;not null"            json:"restaurant_id"`
	Name         string  `gorm:"not null"                  json:"name"`
	Description  string  `json:"description"`
	Price        float64 `gorm:"not null"                  json:"price"`
	Image        string  `json:"image"`
	Category     string  `json:"category"`
}

// OrderRecord is the structural form a submitted order is archived in.
// Total is stored for reporting only; on load it is recomputed from the
// lines and the active/history split is re-derived from status.
type OrderRecord struct {
	ID                    string            `gorm:"primaryKey"      json:"id"`
	UserID                string            `gorm:"index;not null"  json:"user_id"`
	RestaurantName        string            `gorm:"not null"        json:"restaurant_name"`
	Total                 float64           `gorm:"not null"        json:"total"`
	Status                string            `gorm:"not null"        json:"status"`
	CreatedAt             int64             `gorm:"not null"        json:"created_at"`
	DeliveryAddress       string            `json:"delivery_address"`
	EstimatedDeliveryTime string            `json:"estimated_delivery_time"`
	DriverID              string            `json:"driver_id"`
	DriverName            string            `json:"driver_name"`
	Lines                 []OrderLineRecord `gorm:"foreignKey:OrderID" json:"lines,omitempty"`
}

type OrderLineRecord struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID   string  `gorm:"index;not null"              json:"order_id"`
	ItemID    uint    `gorm:"not null"                    json:"item_id"`
	Name      string  `gorm:"not null"                    json:"name"`
	UnitPrice float64 `gorm:"not null"                    json:"unit_price"`
	Quantity  int     `gorm:"default:1;check:quantity>0"  json:"quantity"`
}
