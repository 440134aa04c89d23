package model

type Product struct {
	BaseModel
	OwnerID  string      `db:"owner_id" json:"owner_id"`
	Name     string      `db:"name" json:"name"`
	SKU      string      `db:"sku" json:"sku"`
	Category string      `db:"category" json:"category"`
	Quantity int         `db:"quantity" json:"quantity"`
	MinStock *int        `db:"min_stock" json:"min_stock"` // Nullable; nil or <= 0 means no threshold
	Price    float64     `db:"price" json:"price"`
	Location string      `db:"location" json:"location"`
	Status   StockStatus `db:"status" json:"status"` // Derived cache of ClassifyStockStatus, never authoritative
}
