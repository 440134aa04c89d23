package model

import "time"

type Order struct {
	BaseModel
	OwnerID              string         `db:"owner_id" json:"owner_id"`
	TotalAmount          float64        `db:"total_amount" json:"total_amount"`
	Status               OrderStatus    `db:"status" json:"status"`
	DeliveryDateExpected *time.Time     `db:"delivery_date_expected" json:"delivery_date_expected"`
	DeliveryDateActual   *time.Time     `db:"delivery_date_actual" json:"delivery_date_actual"`
	DeliveryStatus       DeliveryStatus `db:"delivery_status" json:"delivery_status"`
	Notes                string         `db:"notes" json:"notes"`
	Items                []OrderItem    `db:"-" json:"items"` // Loaded separately, not a column
}

// OrderItem snapshots product identity at sale time so later product
// edits or deletions do not rewrite order history. ProductID is kept
// for ledger reversal lookups only.
type OrderItem struct {
	ID          string    `db:"id" json:"id"`
	OrderID     string    `db:"order_id" json:"order_id"`
	ProductID   string    `db:"product_id" json:"product_id"`
	ProductName string    `db:"product_name" json:"product_name"`
	SKU         string    `db:"sku" json:"sku"`
	Category    string    `db:"category" json:"category"`
	Quantity    int       `db:"quantity" json:"quantity"`
	PriceAtSale float64   `db:"price_at_sale" json:"price_at_sale"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
